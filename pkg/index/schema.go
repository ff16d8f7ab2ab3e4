package index

// Schema contains the SQL statements to create the object index schema.
const Schema = `
-- Objects table: one row per stored object, mirroring the metadata sidecar
CREATE TABLE IF NOT EXISTS objects (
    key           TEXT PRIMARY KEY,
    owner_id      TEXT NOT NULL,
    filename      TEXT NOT NULL,
    folder        TEXT NOT NULL DEFAULT '',
    size          INTEGER NOT NULL,
    mime          TEXT NOT NULL,
    sha256        TEXT NOT NULL,
    created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for performance
CREATE INDEX IF NOT EXISTS idx_objects_owner ON objects(owner_id);
CREATE INDEX IF NOT EXISTS idx_objects_owner_folder ON objects(owner_id, folder);
`
