package sqlinline

const generationColumns = `id::text, user_id::text, prompt, mode, aspect_ratio, resolution, model, status,
    coalesce(video_url, ''), coalesce(thumbnail_url, ''), credits_used, coalesce(error_message, ''),
    coalesce(project_id::text, ''), coalesce(template_id::text, ''), coalesce(batch_id::text, ''),
    prepaid, coalesce(idempotency_key, ''), coalesce(generation_time, 0), is_public, coalesce(title, ''),
    likes_count, views_count, created_at, updated_at`

const QInsertGeneration = `--sql c00a9941-c418-414d-988a-e1208c8c15b1
insert into video_generations (
    user_id, prompt, mode, aspect_ratio, resolution, model, status, credits_used,
    project_id, template_id, batch_id, prepaid, idempotency_key, is_public
)
values (
    $1::uuid, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text, $8::int,
    nullif($9::text, '')::uuid, nullif($10::text, '')::uuid, nullif($11::text, '')::uuid,
    $12::boolean, nullif($13::text, ''), $14::boolean
)
returning id::text, created_at, updated_at;
`

const QSelectGenerationForUser = `--sql f60788e9-4b47-4ede-835f-d0b39173adea
select ` + generationColumns + `
from video_generations
where id = $1::uuid and user_id = $2::uuid;
`

const QSelectGenerationByIdempotencyKey = `--sql 32b0122f-5783-4af0-b82f-0e076eb1cb20
select ` + generationColumns + `
from video_generations
where user_id = $1::uuid and idempotency_key = $2::text;
`

const QListGenerationsForUser = `--sql b2f5625b-3d2d-4a3c-8de0-467cb4fd8bba
select ` + generationColumns + `
from video_generations
where user_id = $1::uuid
  and ($2::text = '' or status = $2::text)
  and ($3::text = '' or project_id::text = $3::text)
order by created_at desc
limit $4::int offset $5::int;
`

const QMarkGenerationFailed = `--sql adfc8204-93c7-40b4-859d-5f17710a11d6
update video_generations
set status = 'failed', error_message = $2::text, updated_at = now()
where id = $1::uuid and status in ('pending', 'processing')
returning user_id::text, prepaid, credits_used, coalesce(batch_id::text, '');
`

const QCompleteGeneration = `--sql 26a3ef55-46ff-423e-9b3b-03a04af59597
update video_generations
set status = 'completed',
    video_url = $2::text,
    thumbnail_url = coalesce(nullif($5::text, ''), thumbnail_url),
    credits_used = $3::int,
    completed_at = $4::timestamptz,
    generation_time = greatest(0, extract(epoch from ($4::timestamptz - created_at))::int),
    updated_at = now()
where id = $1::uuid and status in ('pending', 'processing')
returning user_id::text;
`

const QSelectGenerationStatus = `--sql e47b60f1-a64e-4ee1-b824-aea7241b0989
select status
from video_generations
where id = $1::uuid;
`

// QInsertUsageTransaction appends at most one usage row per generation.
const QInsertUsageTransaction = `--sql 7d72f4de-4e44-4ad8-83cb-3d3f6d056c13
insert into credit_transactions (user_id, amount, type, description, generation_id)
values ($1::uuid, -$2::int, 'usage', $3::text, $4::uuid)
on conflict (generation_id) where type = 'usage' and generation_id is not null do nothing
returning id::text;
`

const QIncrementProjectVideoCount = `--sql bb1747a7-1afb-4d26-b671-d0d5902ce8e9
update projects
set video_count = video_count + 1, updated_at = now()
where id = $1::uuid;
`

const QSelectProjectOwned = `--sql 99da7204-09e4-4ce4-b9f3-a922cf1a36c1
select exists (
    select 1 from projects where id = $1::uuid and user_id = $2::uuid
);
`
