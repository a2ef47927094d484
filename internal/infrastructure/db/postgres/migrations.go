package postgres

// Step is one schema change with its inverse.
type Step struct {
	Version string
	Name    string
	Up      string
	Down    string
}

// Steps is the ordered schema history. Append only; never edit a released step.
var Steps = []Step{
	{
		Version: "20240101000001",
		Name:    "create_users_table",
		Up: `CREATE TABLE IF NOT EXISTS users (
	id         BIGSERIAL PRIMARY KEY,
	name       VARCHAR(100) NOT NULL,
	email      VARCHAR(255) NOT NULL,
	password   VARCHAR(255) NOT NULL,
	created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email);`,
		Down: `DROP TABLE IF EXISTS users;`,
	},
	{
		Version: "20240101000002",
		Name:    "create_orders_table",
		Up: `CREATE TABLE IF NOT EXISTS orders (
	id          BIGSERIAL PRIMARY KEY,
	user_id     BIGINT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	description TEXT          NOT NULL,
	status      VARCHAR(20)   NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'in_progress', 'completed', 'cancelled')),
	total       NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (total >= 0),
	created_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id);`,
		Down: `DROP TABLE IF EXISTS orders;`,
	},
	{
		Version: "20240101000003",
		Name:    "index_orders_user_created",
		Up:      `CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC, id DESC);`,
		Down:    `DROP INDEX IF EXISTS idx_orders_user_created;`,
	},
}
