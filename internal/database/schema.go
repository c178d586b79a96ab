package database

// Email uses a binary collation on MySQL so uniqueness is case-sensitive,
// matching the in-memory store.  No foreign keys: deleting a user or client
// leaves dependent cases untouched.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		email         VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(32)  NOT NULL DEFAULT 'CASEWORKER',
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS clients (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		company_name VARCHAR(255) NOT NULL,
		contact_name VARCHAR(255) NULL,
		email        VARCHAR(255) NULL,
		phone        VARCHAR(64)  NULL,
		address      TEXT         NULL,
		created_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS cases (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		case_number    VARCHAR(32)  NOT NULL DEFAULT '',
		title          VARCHAR(255) NULL,
		description    TEXT         NOT NULL,
		inspector_id   BIGINT UNSIGNED NOT NULL,
		inspector_name VARCHAR(255) NOT NULL,
		client_id      BIGINT UNSIGNED NULL,
		priority       VARCHAR(32)  NOT NULL DEFAULT 'MEDIUM',
		status         VARCHAR(32)  NOT NULL DEFAULT 'OPEN',
		file_reference VARCHAR(128) NULL,
		order_date     VARCHAR(10)  NOT NULL,
		deadline       VARCHAR(10)  NULL,
		location       VARCHAR(255) NULL,
		internal_note  TEXT         NULL,
		created_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT        NOT NULL,
		email         TEXT        NOT NULL UNIQUE,
		password_hash TEXT        NOT NULL,
		role          TEXT        NOT NULL DEFAULT 'CASEWORKER',
		is_active     BOOLEAN     NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id           BIGSERIAL PRIMARY KEY,
		company_name TEXT        NOT NULL,
		contact_name TEXT,
		email        TEXT,
		phone        TEXT,
		address      TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cases (
		id             BIGSERIAL PRIMARY KEY,
		case_number    TEXT        NOT NULL DEFAULT '',
		title          TEXT,
		description    TEXT        NOT NULL,
		inspector_id   BIGINT      NOT NULL,
		inspector_name TEXT        NOT NULL,
		client_id      BIGINT,
		priority       TEXT        NOT NULL DEFAULT 'MEDIUM',
		status         TEXT        NOT NULL DEFAULT 'OPEN',
		file_reference TEXT,
		order_date     TEXT        NOT NULL,
		deadline       TEXT,
		location       TEXT,
		internal_note  TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}
