package sqlinline

const templateColumns = `id::text, name, coalesce(description, ''), category, prompt, coalesce(thumbnail_url, ''),
    aspect_ratio, resolution, popularity, is_active, coalesce(created_by::text, ''), created_at`

const QListTemplates = `--sql 458d68c8-b0d8-4e4b-acd5-0c12848f1090
select ` + templateColumns + `
from templates
where is_active and ($1::text = '' or category = $1::text)
order by popularity desc, created_at desc
limit $2::int;
`

const QInsertTemplate = `--sql 1b6cb76f-74a7-4f13-8ab7-1b1f695bf222
insert into templates (name, description, category, prompt, thumbnail_url, aspect_ratio, resolution, created_by)
values ($1::text, nullif($2::text, ''), $3::text, $4::text, nullif($5::text, ''), $6::text, $7::text, nullif($8::text, '')::uuid)
returning ` + templateColumns + `;
`
