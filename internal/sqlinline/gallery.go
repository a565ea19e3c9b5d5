package sqlinline

const QListGallery = `--sql a663184c-574f-4d89-baa0-d8b48102eacc
select g.id::text, g.user_id::text, g.prompt, g.mode, g.aspect_ratio, g.resolution, g.model, g.status,
    coalesce(g.video_url, ''), coalesce(g.thumbnail_url, ''), g.credits_used, coalesce(g.title, ''),
    g.likes_count, g.views_count, g.created_at,
    coalesce(p.full_name, ''), coalesce(p.avatar_url, '')
from video_generations g
join profiles p on p.id = g.user_id
where g.is_public
  and g.status = 'completed'
  and g.video_url is not null
  and ($1::text = '' or g.aspect_ratio = $1::text)
  and ($2::text = '' or g.resolution = $2::text)
order by
    case when $3::text = 'liked' then g.likes_count end desc nulls last,
    case when $3::text = 'popular' then g.views_count end desc nulls last,
    g.created_at desc
limit $4::int offset $5::int;
`
