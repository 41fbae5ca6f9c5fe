package storage

const postgresSchema = `
CREATE TABLE IF NOT EXISTS ice_creams (
	id SERIAL PRIMARY KEY,
	name VARCHAR(255) UNIQUE NOT NULL,
	stock INT NOT NULL,
	max_stock INT NOT NULL,
	target_stock INT NOT NULL DEFAULT 0
)`

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS ice_creams (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL UNIQUE,
	stock INT NOT NULL,
	max_stock INT NOT NULL,
	target_stock INT NOT NULL DEFAULT 0
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Queries below use ? placeholders and are rebound per driver.
const (
	countItemsQuery = `SELECT COUNT(*) FROM ice_creams`

	insertSeedItemQuery = `INSERT INTO ice_creams (name, stock, max_stock) VALUES (?, 0, 0)`

	listItemsQuery = `
		SELECT id, name, stock, max_stock, target_stock
		FROM ice_creams ORDER BY id`
)
