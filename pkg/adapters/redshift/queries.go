package redshift

// Catalog queries. Each reads the whole catalog outside pg_* schemas; the
// reflector groups the rows per relation.

const currentSchemaQuery = `SELECT current_schema()`

const relationsQuery = `
SELECT
  c.relkind,
  n.oid as "schema_oid",
  n.nspname as "schema",
  c.oid as "rel_oid",
  c.relname,
  CASE c.reldiststyle
    WHEN 0 THEN 'EVEN' WHEN 1 THEN 'KEY' WHEN 8 THEN 'ALL' END
    AS "diststyle",
  c.relowner AS "owner_id",
  u.usename AS "owner_name",
  TRIM(TRAILING ';' FROM pg_catalog.pg_get_viewdef(c.oid, true))
    AS "view_definition",
  pg_catalog.array_to_string(c.relacl, '\n') AS "privileges"
FROM pg_catalog.pg_class c
     LEFT JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
     JOIN pg_catalog.pg_user u ON u.usesysid = c.relowner
WHERE c.relkind IN ('r', 'v', 'm', 'S', 'f')
  AND n.nspname !~ '^pg_'
ORDER BY c.relkind, n.oid, n.nspname;
`

// Late-binding views have no pg_attribute rows; their columns come from
// pg_get_late_binding_view_cols().
const columnsQuery = `
SELECT
  n.nspname as "schema",
  c.relname as "table_name",
  att.attname as "name",
  format_encoding(att.attencodingtype::integer) as "encode",
  format_type(att.atttypid, att.atttypmod) as "type",
  att.attisdistkey as "distkey",
  att.attsortkeyord as "sortkey",
  att.attnotnull as "notnull",
  pg_catalog.col_description(att.attrelid, att.attnum)
    as "comment",
  adsrc,
  attnum,
  pg_catalog.format_type(att.atttypid, att.atttypmod),
  pg_catalog.pg_get_expr(ad.adbin, ad.adrelid) AS DEFAULT,
  n.oid as "schema_oid",
  c.oid as "table_oid"
FROM pg_catalog.pg_class c
LEFT JOIN pg_catalog.pg_namespace n
  ON n.oid = c.relnamespace
JOIN pg_catalog.pg_attribute att
  ON att.attrelid = c.oid
LEFT JOIN pg_catalog.pg_attrdef ad
  ON (att.attrelid, att.attnum) = (ad.adrelid, ad.adnum)
WHERE n.nspname !~ '^pg_'
  AND att.attnum > 0
  AND NOT att.attisdropped
UNION
SELECT
  view_schema as "schema",
  view_name as "table_name",
  col_name as "name",
  null as "encode",
  col_type as "type",
  null as "distkey",
  0 as "sortkey",
  null as "notnull",
  null as "comment",
  null as "adsrc",
  null as "attnum",
  col_type as "format_type",
  null as "default",
  null as "schema_oid",
  null as "table_oid"
FROM pg_get_late_binding_view_cols() cols(
  view_schema name,
  view_name name,
  col_name name,
  col_type varchar,
  col_num int)
ORDER BY "schema", "table_name", "attnum";
`

const constraintsQuery = `
SELECT
  n.nspname as "schema",
  c.relname as "table_name",
  t.contype,
  t.conname,
  t.conkey,
  a.attnum,
  a.attname,
  pg_catalog.pg_get_constraintdef(t.oid, true) as condef,
  n.oid as "schema_oid",
  c.oid as "rel_oid"
FROM pg_catalog.pg_class c
LEFT JOIN pg_catalog.pg_namespace n
  ON n.oid = c.relnamespace
JOIN pg_catalog.pg_constraint t
  ON t.conrelid = c.oid
JOIN pg_catalog.pg_attribute a
  ON t.conrelid = a.attrelid AND a.attnum = ANY(t.conkey)
WHERE n.nspname !~ '^pg_'
ORDER BY n.nspname, c.relname
`
