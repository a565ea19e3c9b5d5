package sqlinline

const profileColumns = `id::text, coalesce(email, ''), coalesce(full_name, ''), coalesce(avatar_url, ''), credits, created_at, updated_at`

const QSelectProfile = `--sql 8471e1e5-6b9d-4230-9eab-423bb99eed0c
select ` + profileColumns + `
from profiles
where id = $1::uuid;
`

const QInsertProfileIfMissing = `--sql 70cff094-a7be-478d-9abb-e3bc557303c1
insert into profiles (id, email, full_name, avatar_url, credits)
values ($1::uuid, nullif($2::text, ''), nullif($3::text, ''), nullif($4::text, ''), $5::int)
on conflict (id) do nothing
returning ` + profileColumns + `;
`

const QSelectCreditsForUpdate = `--sql c35cc236-5ca6-4384-9963-7148dc5f38f8
select credits
from profiles
where id = $1::uuid
for update;
`

// QDebitCredits decrements only when the balance covers the amount.
const QDebitCredits = `--sql 1fa5ec28-3d3b-44fe-a44b-4efc3128469e
update profiles
set credits = credits - $2::int, updated_at = now()
where id = $1::uuid and credits >= $2::int
returning credits;
`

const QCreditCredits = `--sql 528bdeb3-2cdf-4d19-9ee8-6d7bed717bbb
update profiles
set credits = credits + $2::int, updated_at = now()
where id = $1::uuid
returning credits;
`

const QInsertCreditTransaction = `--sql 65f6995b-9156-4451-b531-2bf0433d8e5e
insert into credit_transactions (user_id, amount, type, description, generation_id, batch_id)
values ($1::uuid, $2::int, $3::text, $4::text, nullif($5::text, '')::uuid, nullif($6::text, '')::uuid)
returning id::text;
`
