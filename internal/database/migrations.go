package database

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    storage_key TEXT PRIMARY KEY,
    token TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
