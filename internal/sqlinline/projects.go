package sqlinline

const projectColumns = `id::text, user_id::text, name, coalesce(description, ''), coalesce(thumbnail_url, ''), video_count, created_at, updated_at`

const QListProjects = `--sql b8a47a96-8ebd-4995-bb8e-79e8693783ff
select ` + projectColumns + `
from projects
where user_id = $1::uuid
order by updated_at desc;
`

const QInsertProject = `--sql e38dd7b3-d428-49e7-9739-2c20cde5710f
insert into projects (user_id, name, description, thumbnail_url)
values ($1::uuid, $2::text, nullif($3::text, ''), nullif($4::text, ''))
returning ` + projectColumns + `;
`

const QSelectProject = `--sql 56732f0c-5334-4d1e-9c32-be6304cddd83
select ` + projectColumns + `
from projects
where id = $1::uuid and user_id = $2::uuid;
`

const QUpdateProject = `--sql 2904deb9-e338-473f-83f5-afda2e028f80
update projects
set name = coalesce($3::text, name),
    description = coalesce($4::text, description),
    thumbnail_url = coalesce($5::text, thumbnail_url),
    updated_at = now()
where id = $1::uuid and user_id = $2::uuid
returning ` + projectColumns + `;
`

const QUnlinkProjectGenerations = `--sql 18304c3b-eaf4-4841-8394-ce5515323332
update video_generations
set project_id = null, updated_at = now()
where project_id = $1::uuid and user_id = $2::uuid;
`

const QDeleteProject = `--sql 68d641c4-9f72-47b0-b521-b4ca69caaa8d
delete from projects
where id = $1::uuid and user_id = $2::uuid;
`
