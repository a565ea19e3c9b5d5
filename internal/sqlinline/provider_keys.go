package sqlinline

// QSelectProviderKey returns the stored API key for a provider.
const QSelectProviderKey = `--sql 5299a700-51ff-48b3-88d4-eca94fce815a
select api_key
from provider_keys
where provider = $1::text;
`

// QUpsertProviderKey replaces the key and merges properties into the existing set.
const QUpsertProviderKey = `--sql 3b5998a4-a21a-42cb-bfcf-3785dc1a05d0
insert into provider_keys (provider, api_key, properties)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb))
on conflict (provider) do update set
    api_key = excluded.api_key,
    properties = provider_keys.properties || excluded.properties,
    rotated_at = now();
`
