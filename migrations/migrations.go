package migrations

import (
	"database/sql"
	"time"
)

// AutoMigrateOrderSnapshots creates the order snapshot tables if they do
// not exist.
func AutoMigrateOrderSnapshots(retries int, db *sql.DB) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS order_snapshots (
			order_id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			total_amount DOUBLE NOT NULL,
			delivery_charges DOUBLE NOT NULL,
			taxes DOUBLE NOT NULL,
			discount_amount DOUBLE NOT NULL DEFAULT 0,
			round_off DOUBLE NOT NULL DEFAULT 0,
			final_amount DOUBLE NOT NULL,
			payment_method VARCHAR(32) NOT NULL,
			payment_status VARCHAR(20) NOT NULL,
			customer_notes TEXT,
			order_source VARCHAR(32),
			order_status VARCHAR(20) NOT NULL,
			delivery_address TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			INDEX idx_user_created (user_id, created_at)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS order_snapshot_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id VARCHAR(64) NOT NULL,
			menu_item_id VARCHAR(64) NOT NULL,
			name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			price DOUBLE NOT NULL,
			special_instructions TEXT,
			FOREIGN KEY (order_id) REFERENCES order_snapshots(order_id) ON DELETE CASCADE
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS order_status_history (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id VARCHAR(64) NOT NULL,
			status VARCHAR(20) NOT NULL,
			note TEXT,
			changed_at DATETIME NOT NULL,
			FOREIGN KEY (order_id) REFERENCES order_snapshots(order_id) ON DELETE CASCADE
		);
		`,
	}

	for _, query := range queries {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
