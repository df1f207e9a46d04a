package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/wichananm65/storefront-backend/internal/database"
)

const paymentReferenceConstraint = "orders_payment_reference_key"

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	orderColumns = `id, order_number, customer_email, customer_name, amount_total, currency, status,
		delivery_method, payment_reference, shipping_name, shipping_line1, shipping_line2, shipping_city,
		shipping_state, shipping_postal, shipping_country, created_at, user_id`

	insertOrderQuery = `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	insertOrderItemQuery = `
		INSERT INTO order_items (order_id, product_id, product_name, price_at_purchase, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	findOrderByReferenceQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE payment_reference = $1
	`
	getOrderByNumberQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE order_number = $1
	`
	listOrdersByUserQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	listItemsByOrderIDsQuery = `
		SELECT id, order_id, product_id, product_name, price_at_purchase, quantity
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateWithItems runs the order insert and every item insert in one
// transaction. Any early return rolls the transaction back.
func (r *PostgresRepository) CreateWithItems(ctx context.Context, ord Order) (Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Order{}, &WriteError{Stage: "begin", Err: err}
	}
	defer tx.Rollback()

	s := ord.Shipping
	if s == nil {
		s = &ShippingAddress{}
	}
	_, err = tx.ExecContext(ctx, insertOrderQuery,
		ord.ID, ord.OrderNumber, ord.CustomerEmail, ord.CustomerName, ord.AmountTotal, ord.Currency, string(ord.Status),
		ord.DeliveryMethod, ord.PaymentReference,
		nullString(s.Name), nullString(s.Line1), nullString(s.Line2), nullString(s.City),
		nullString(s.State), nullString(s.PostalCode), nullString(s.Country),
		ord.CreatedAt, nullUserID(ord.UserID),
	)
	if err != nil {
		if database.IsUniqueViolation(err, paymentReferenceConstraint) {
			return Order{}, ErrDuplicatePayment
		}
		return Order{}, &WriteError{Stage: "insert_order", Err: err}
	}

	items := make([]OrderItem, len(ord.Items))
	for i, it := range ord.Items {
		it.OrderID = ord.ID
		if err := tx.QueryRowContext(ctx, insertOrderItemQuery,
			it.OrderID, it.ProductID, it.ProductName, it.PriceAtPurchase, it.Quantity,
		).Scan(&it.ID); err != nil {
			return Order{}, &WriteError{Stage: "insert_item", Err: fmt.Errorf("item %s: %w", it.ProductID, err)}
		}
		items[i] = it
	}

	if err := tx.Commit(); err != nil {
		return Order{}, &WriteError{Stage: "commit", Err: err}
	}
	ord.Items = items
	return ord, nil
}

func (r *PostgresRepository) FindByPaymentReference(ctx context.Context, ref string) (Order, error) {
	return r.getOne(ctx, findOrderByReferenceQuery, ref)
}

func (r *PostgresRepository) GetByNumber(ctx context.Context, number string) (Order, error) {
	return r.getOne(ctx, getOrderByNumberQuery, number)
}

func (r *PostgresRepository) getOne(ctx context.Context, query, arg string) (Order, error) {
	ord, err := scanOrder(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("query order: %w", err)
	}

	orders := []Order{ord}
	if err := r.attachItems(ctx, orders); err != nil {
		return Order{}, err
	}
	return orders[0], nil
}

func (r *PostgresRepository) ListByUserID(ctx context.Context, userID int) ([]Order, error) {
	if userID <= 0 {
		return []Order{}, nil
	}
	rows, err := r.db.QueryContext(ctx, listOrdersByUserQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the items of all orders with a single query.
func (r *PostgresRepository) attachItems(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = []OrderItem{}
	}

	rows, err := r.db.QueryContext(ctx, listItemsByOrderIDsQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.PriceAtPurchase, &it.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}

func scanOrder(scanner rowScanner) (Order, error) {
	var (
		ord    Order
		status string
		name   sql.NullString
		line1  sql.NullString
		line2  sql.NullString
		city   sql.NullString
		state  sql.NullString
		postal sql.NullString
		cntry  sql.NullString
		owner  sql.NullInt64
	)
	err := scanner.Scan(&ord.ID, &ord.OrderNumber, &ord.CustomerEmail, &ord.CustomerName, &ord.AmountTotal,
		&ord.Currency, &status, &ord.DeliveryMethod, &ord.PaymentReference,
		&name, &line1, &line2, &city, &state, &postal, &cntry, &ord.CreatedAt, &owner)
	if err != nil {
		return Order{}, err
	}
	ord.Status = Status(status)
	ord.UserID = int(owner.Int64)
	if line1.Valid || city.Valid || postal.Valid {
		ord.Shipping = &ShippingAddress{
			Name:       name.String,
			Line1:      line1.String,
			Line2:      line2.String,
			City:       city.String,
			State:      state.String,
			PostalCode: postal.String,
			Country:    cntry.String,
		}
	}
	return ord, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullUserID(id int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id > 0}
}
