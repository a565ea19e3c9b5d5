package sqlinline

// QWorkerClaimGeneration stamps updated_at with the claim time; the sweeper
// measures a processing record's lifetime from it.
const QWorkerClaimGeneration = `--sql 9b53fa00-bcc8-49ee-b89c-48b5a6d1735f
with next_generation as (
    select id
    from video_generations
    where status = 'pending'
    order by created_at asc
    for update skip locked
    limit 1
)
update video_generations
set status = 'processing', updated_at = now()
where id in (select id from next_generation)
returning ` + generationColumns + `;
`

const QSelectStaleGenerations = `--sql 194a76fd-614b-408e-898f-3c07c12c9f3c
select id::text
from video_generations
where (status = 'pending' and created_at < $1::timestamptz)
   or (status = 'processing' and updated_at < $1::timestamptz)
order by created_at asc
limit $2::int;
`
