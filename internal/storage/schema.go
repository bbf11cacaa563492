package storage

const schema = `
-- One row per catalog index; together the rows of a list_id form that list's package map.
CREATE TABLE IF NOT EXISTS package_maps (
    list_id TEXT NOT NULL,
    package_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL, -- order of the package within the map
    position INTEGER NOT NULL, -- order of the index within the package
    word_index INTEGER NOT NULL,

    PRIMARY KEY (list_id, package_id, position)
);

-- Best results, one row per score key and list.
CREATE TABLE IF NOT EXISTS scores (
    list_id TEXT NOT NULL,
    score_key TEXT NOT NULL,
    correct INTEGER NOT NULL,
    total INTEGER NOT NULL,
    percentage REAL NOT NULL,
    achieved_at TEXT NOT NULL,
    duration_seconds INTEGER,

    PRIMARY KEY (list_id, score_key)
);
`
