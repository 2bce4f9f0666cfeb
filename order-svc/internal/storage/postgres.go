package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"overcooked-delivery/apperr"
	"overcooked-delivery/order-svc/internal/domain"
	"overcooked-delivery/orderstatus"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var orderColumns = []string{
	"id", "tracking_id", "customer_id", "customer_phone", "restaurant_id", "restaurant_name",
	"delivery_address", "latitude", "longitude", "delivery_instructions",
	"payment_method", "payment_reference",
	"subtotal", "delivery_fee", "tax", "total",
	"distance_km", "duration_minutes", "delivery_fare",
	"order_status", "payment_status", "created_at", "updated_at",
}

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (tracking_id, customer_id, customer_phone, restaurant_id, restaurant_name,
			delivery_address, latitude, longitude, delivery_instructions, payment_method, payment_reference,
			subtotal, delivery_fee, tax, total, distance_km, duration_minutes, delivery_fare,
			order_status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at, updated_at
	`,
		order.TrackingID, order.CustomerID, order.CustomerPhone, order.RestaurantID, order.RestaurantName,
		order.DeliveryAddress.Text, order.DeliveryAddress.Latitude, order.DeliveryAddress.Longitude,
		order.DeliveryInstructions, order.PaymentMethod, order.PaymentReference,
		order.Subtotal, order.DeliveryFee, order.Tax, order.Total,
		order.DistanceKm, order.DurationMinutes, order.DeliveryFare,
		string(order.OrderStatus), string(order.PaymentStatus),
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, dish_id, menu_item_id, name, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, order.ID, item.DishID, item.MenuItemID, item.Name, item.Quantity, item.Price); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID int64, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	query, args, err := psql.Select(orderColumns...).From("orders").Where(sq.Eq{"id": orderID}).ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT dish_id, menu_item_id, name, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.DishID, &item.MenuItemID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

func (r *PostgresRepository) ListOrders(ctx context.Context, filter domain.ListFilter) ([]domain.Order, error) {
	q := psql.Select(orderColumns...).From("orders").OrderBy("created_at DESC")
	if filter.CustomerID != "" {
		q = q.Where(sq.Eq{"customer_id": filter.CustomerID})
	}
	if filter.RestaurantID != "" {
		q = q.Where(sq.Eq{"restaurant_id": filter.RestaurantID})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"order_status": string(filter.Status)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID int64, status orderstatus.OrderStatus, payment orderstatus.PaymentStatus) (time.Time, error) {
	query, args, err := psql.Update("orders").
		Set("order_status", string(status)).
		Set("payment_status", string(payment)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": orderID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return time.Time{}, err
	}

	var updatedAt time.Time
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}
	return updatedAt, err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID int64) ([]byte, error) {
	var qrCode []byte
	err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qrCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}
	return qrCode, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order           domain.Order
		lat, lng        sql.NullFloat64
		status, payment string
	)
	if err := row.Scan(
		&order.ID, &order.TrackingID, &order.CustomerID, &order.CustomerPhone,
		&order.RestaurantID, &order.RestaurantName,
		&order.DeliveryAddress.Text, &lat, &lng, &order.DeliveryInstructions,
		&order.PaymentMethod, &order.PaymentReference,
		&order.Subtotal, &order.DeliveryFee, &order.Tax, &order.Total,
		&order.DistanceKm, &order.DurationMinutes, &order.DeliveryFare,
		&status, &payment, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lat.Valid {
		order.DeliveryAddress.Latitude = &lat.Float64
	}
	if lng.Valid {
		order.DeliveryAddress.Longitude = &lng.Float64
	}

	var err error
	if order.OrderStatus, err = orderstatus.ParseOrderStatus(status); err != nil {
		return nil, err
	}
	if order.PaymentStatus, err = orderstatus.ParsePaymentStatus(payment); err != nil {
		return nil, err
	}
	return &order, nil
}
