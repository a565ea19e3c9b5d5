package sqlinline

const QSelectDashboardStats = `--sql bad875d7-2970-496b-871f-d07ed47a660e
select p.credits,
    count(g.id),
    count(g.id) filter (where g.created_at >= $2::timestamptz),
    coalesce(sum(g.credits_used), 0),
    coalesce(sum(g.credits_used) filter (where g.created_at >= $3::timestamptz), 0),
    coalesce(avg(g.generation_time), 0)::float8
from profiles p
left join video_generations g on g.user_id = p.id and g.status = 'completed'
where p.id = $1::uuid
group by p.credits;
`

const QUpsertUserStats = `--sql 4a931747-5551-49c5-a5f5-c9e26e753fcd
insert into user_stats (user_id, total_videos, total_credits_spent, avg_generation_time, updated_at)
values ($1::uuid, $2::int, $3::int, $4::float8, now())
on conflict (user_id) do update set
    total_videos = excluded.total_videos,
    total_credits_spent = excluded.total_credits_spent,
    avg_generation_time = excluded.avg_generation_time,
    updated_at = now();
`
