package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"restaurant-order-service/internal/entity"
)

// OrderSnapshotRepository stores the last-good copy of every order fetched
// from the backend. The backend stays the source of truth; this table only
// backs stale-while-revalidate reads when a fetch fails.
type OrderSnapshotRepository struct {
	db *sql.DB
}

func NewOrderSnapshotRepository(db *sql.DB) *OrderSnapshotRepository {
	return &OrderSnapshotRepository{db: db}
}

// UpsertOrder replaces the stored snapshot of an order with a fresh copy.
func (r *OrderSnapshotRepository) UpsertOrder(ctx context.Context, order *entity.Order) error {
	addressJSON, err := json.Marshal(order.DeliveryAddress)
	if err != nil {
		return err
	}

	// Start a transaction
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	orderQuery := `
		INSERT INTO order_snapshots
			(order_id, user_id, total_amount, delivery_charges, taxes, discount_amount, round_off, final_amount,
			 payment_method, payment_status, customer_notes, order_source, order_status, delivery_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			total_amount = VALUES(total_amount),
			delivery_charges = VALUES(delivery_charges),
			taxes = VALUES(taxes),
			discount_amount = VALUES(discount_amount),
			round_off = VALUES(round_off),
			final_amount = VALUES(final_amount),
			payment_method = VALUES(payment_method),
			payment_status = VALUES(payment_status),
			customer_notes = VALUES(customer_notes),
			order_source = VALUES(order_source),
			order_status = VALUES(order_status),
			delivery_address = VALUES(delivery_address)`
	_, err = tx.ExecContext(ctx, orderQuery,
		order.OrderID, order.UserID, order.TotalAmount, order.DeliveryCharges, order.Taxes,
		order.DiscountAmount, order.RoundOff, order.FinalAmount, order.PaymentMethod,
		order.PaymentStatus, order.CustomerNotes, order.OrderSource, string(order.OrderStatus),
		string(addressJSON), order.CreatedAt)
	if err != nil {
		tx.Rollback()
		return err
	}

	// Replace child rows wholesale, the snapshot has no partial updates.
	for _, q := range []string{
		`DELETE FROM order_snapshot_items WHERE order_id = ?`,
		`DELETE FROM order_status_history WHERE order_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, order.OrderID); err != nil {
			tx.Rollback()
			return err
		}
	}

	if len(order.Items) > 0 {
		itemQuery := `
			INSERT INTO order_snapshot_items (order_id, menu_item_id, name, quantity, price, special_instructions)
			VALUES `
		var values []interface{}
		for _, item := range order.Items {
			itemQuery += "(?, ?, ?, ?, ?, ?),"
			values = append(values, order.OrderID, item.MenuItemID, item.Name, item.Quantity, item.Price, item.SpecialInstructions)
		}
		itemQuery = itemQuery[:len(itemQuery)-1]

		if _, err := tx.ExecContext(ctx, itemQuery, values...); err != nil {
			tx.Rollback()
			return err
		}
	}

	if len(order.StatusHistory) > 0 {
		historyQuery := `
			INSERT INTO order_status_history (order_id, status, note, changed_at)
			VALUES `
		var values []interface{}
		for _, h := range order.StatusHistory {
			historyQuery += "(?, ?, ?, ?),"
			values = append(values, order.OrderID, string(h.Status), h.Note, h.Timestamp)
		}
		historyQuery = historyQuery[:len(historyQuery)-1]

		if _, err := tx.ExecContext(ctx, historyQuery, values...); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// GetOrder loads one snapshot by order id.
func (r *OrderSnapshotRepository) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT order_id, user_id, total_amount, delivery_charges, taxes, discount_amount, round_off, final_amount,
		       payment_method, payment_status, customer_notes, order_source, order_status, delivery_address, created_at
		FROM order_snapshots WHERE order_id = ?`

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrdersByUser loads every snapshot belonging to a user, newest first.
func (r *OrderSnapshotRepository) ListOrdersByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	query := `
		SELECT order_id, user_id, total_amount, delivery_charges, taxes, discount_amount, round_off, final_amount,
		       payment_method, payment_status, customer_notes, order_source, order_status, delivery_address, created_at
		FROM order_snapshots WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		if err := r.loadChildren(ctx, order); err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *OrderSnapshotRepository) scanOrder(row rowScanner) (*entity.Order, error) {
	order := &entity.Order{}
	var status, addressJSON string
	err := row.Scan(&order.OrderID, &order.UserID, &order.TotalAmount, &order.DeliveryCharges,
		&order.Taxes, &order.DiscountAmount, &order.RoundOff, &order.FinalAmount,
		&order.PaymentMethod, &order.PaymentStatus, &order.CustomerNotes, &order.OrderSource,
		&status, &addressJSON, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	order.OrderStatus = entity.OrderStatus(status)
	if err := json.Unmarshal([]byte(addressJSON), &order.DeliveryAddress); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderSnapshotRepository) loadChildren(ctx context.Context, order *entity.Order) error {
	itemRows, err := r.db.QueryContext(ctx,
		`SELECT menu_item_id, name, quantity, price, special_instructions FROM order_snapshot_items WHERE order_id = ?`,
		order.OrderID)
	if err != nil {
		return err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := entity.OrderItem{}
		if err := itemRows.Scan(&item.MenuItemID, &item.Name, &item.Quantity, &item.Price, &item.SpecialInstructions); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return err
	}

	historyRows, err := r.db.QueryContext(ctx,
		`SELECT status, note, changed_at FROM order_status_history WHERE order_id = ? ORDER BY changed_at`,
		order.OrderID)
	if err != nil {
		return err
	}
	defer historyRows.Close()

	for historyRows.Next() {
		h := entity.StatusEntry{}
		var status string
		if err := historyRows.Scan(&status, &h.Note, &h.Timestamp); err != nil {
			return err
		}
		h.Status = entity.OrderStatus(status)
		order.StatusHistory = append(order.StatusHistory, h)
	}
	return historyRows.Err()
}
