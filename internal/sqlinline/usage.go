// Package sqlinline holds every SQL statement the repositories run. Each
// statement starts with a --sql <uuid> marker so it can be traced in
// database logs; tools/sqllint enforces the marker.
package sqlinline

// PostgreSQL

const QCreateUsageDaily = `--sql 250549ad-fc5f-4e94-92b6-1f54865c6023
create table if not exists usage_daily (
  day date not null,
  operation text not null,
  requests integer not null default 0,
  messages integer not null default 0,
  request_success integer not null default 0,
  request_fail integer not null default 0,
  updated_at timestamptz not null default now(),
  primary key (day, operation)
);
`

const QUpsertUsageDaily = `--sql 40bcf89e-7433-408b-9e5f-d9ccc9b0a609
insert into usage_daily (day, operation, requests, messages, request_success, request_fail)
values ($1::date, $2::text, 1, $3::int, $4::int, $5::int)
on conflict (day, operation) do update set
  requests = usage_daily.requests + 1,
  messages = usage_daily.messages + excluded.messages,
  request_success = usage_daily.request_success + excluded.request_success,
  request_fail = usage_daily.request_fail + excluded.request_fail,
  updated_at = now();
`

const QListUsageDaily = `--sql 79613d22-b0bc-4eb2-9c4a-02caa26bdc02
select day, operation, requests, messages, request_success, request_fail
from usage_daily
order by day desc, operation;
`

// SQLite

const QCreateUsageDailySQLite = `--sql 55bd3961-a863-460a-be26-511a6ed7b378
create table if not exists usage_daily (
  day text not null,
  operation text not null,
  requests integer not null default 0,
  messages integer not null default 0,
  request_success integer not null default 0,
  request_fail integer not null default 0,
  updated_at datetime not null default current_timestamp,
  primary key (day, operation)
);
`

const QUpsertUsageDailySQLite = `--sql 17f96b9b-2fdc-4802-b35b-cbe868047539
insert into usage_daily (day, operation, requests, messages, request_success, request_fail)
values (?, ?, 1, ?, ?, ?)
on conflict (day, operation) do update set
  requests = usage_daily.requests + 1,
  messages = usage_daily.messages + excluded.messages,
  request_success = usage_daily.request_success + excluded.request_success,
  request_fail = usage_daily.request_fail + excluded.request_fail,
  updated_at = current_timestamp;
`

const QListUsageDailySQLite = `--sql 14f59885-c0c2-4c3d-aeb8-b4828ba03045
select day, operation, requests, messages, request_success, request_fail
from usage_daily;
`
