package sqlinline

const QListNotifications = `--sql ec268caa-c82f-4851-91df-60c645518fdc
select id::text, user_id::text, type, title, coalesce(message, ''), data, is_read, created_at
from notifications
where user_id = $1::uuid and (not $2::boolean or not is_read)
order by created_at desc
limit $3::int;
`

const QCountUnreadNotifications = `--sql 9fca142b-3928-482e-bea3-bc3a60dd39ce
select count(*)
from notifications
where user_id = $1::uuid and not is_read;
`

const QInsertNotification = `--sql 841ad0b3-2375-49aa-9954-5c124c0989cf
insert into notifications (user_id, type, title, message, data)
values ($1::uuid, $2::text, $3::text, nullif($4::text, ''), coalesce($5::jsonb, '{}'::jsonb))
returning id::text, is_read, created_at;
`

const QMarkAllNotificationsRead = `--sql 5fa934c0-644b-4cb3-ac60-49028b6218af
update notifications
set is_read = true
where user_id = $1::uuid and not is_read;
`

const QMarkNotificationRead = `--sql cf02b0ba-0545-4dd9-9894-ba059e8c9149
update notifications
set is_read = true
where id = $1::uuid and user_id = $2::uuid;
`

const QDeleteNotification = `--sql fd3f3343-ed6f-47cb-86fb-7e6302da2132
delete from notifications
where id = $1::uuid and user_id = $2::uuid;
`
