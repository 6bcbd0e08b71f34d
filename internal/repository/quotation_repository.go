package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/snackparty/catering-api/internal/domain"
)

// QuotationFilter narrows quotation listings. OwnerID scopes the query to
// one requester.
type QuotationFilter struct {
	OwnerID *int64
	Status  *domain.QuotationStatus
	Limit   int
	Offset  int
}

// QuotationRepository encapsulates quotation persistence.
type QuotationRepository interface {
	Create(ctx context.Context, q *domain.Quotation) error
	AddItem(ctx context.Context, quotationID int64, line domain.QuotationLine) error
	GetByID(ctx context.Context, id int64, ownerID *int64) (*domain.Quotation, error)
	List(ctx context.Context, filter QuotationFilter) ([]domain.Quotation, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.QuotationStatus) error
	Delete(ctx context.Context, id int64) error
	UpsertPersonalization(ctx context.Context, p domain.SnackPersonalization) error
	GetPersonalization(ctx context.Context, quotationID int64) (*domain.SnackPersonalization, error)

	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]domain.StatusCount, error)
	TopEventTypes(ctx context.Context, limit int) ([]domain.EventTypeCount, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type quotationRepository struct {
	db Querier
}

// NewQuotationRepository instantiates repository.
func NewQuotationRepository(db Querier) QuotationRepository {
	return &quotationRepository{db: db}
}

const quotationSelect = `
        SELECT q.id, q.user_id, q.event_address, q.event_date, q.event_time, q.event_type,
               q.guest_count, q.special_requests, q.status, q.created_at,
               u.full_name, u.email, u.phone
        FROM quotations q
        JOIN users u ON u.id = q.user_id`

func (r *quotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	const query = `
        INSERT INTO quotations (user_id, event_address, event_date, event_time, event_type, guest_count, special_requests, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	if q.Status == "" {
		q.Status = domain.QuotationStatusPending
	}
	return r.db.QueryRow(ctx, query,
		q.UserID,
		q.EventAddress,
		q.EventDate,
		q.EventTime,
		q.EventType,
		q.GuestCount,
		q.SpecialRequests,
		q.Status,
	).Scan(&q.ID, &q.CreatedAt)
}

func (r *quotationRepository) AddItem(ctx context.Context, quotationID int64, line domain.QuotationLine) error {
	const query = `INSERT INTO quotation_items (quotation_id, catalog_item_id, quantity) VALUES ($1,$2,$3)`
	_, err := r.db.Exec(ctx, query, quotationID, line.CatalogItemID, line.Quantity)
	return err
}

func (r *quotationRepository) GetByID(ctx context.Context, id int64, ownerID *int64) (*domain.Quotation, error) {
	var b clauseBuilder
	b.add("q.id = %s", id)
	if ownerID != nil {
		b.add("q.user_id = %s", *ownerID)
	}
	q, err := scanQuotation(r.db.QueryRow(ctx, quotationSelect+b.where(), b.args...))
	if err != nil {
		return nil, err
	}
	list := []domain.Quotation{*q}
	if err := r.hydrate(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// quotationFilterClause renders the WHERE clause shared by the page and
// count queries.
func quotationFilterClause(filter QuotationFilter) clauseBuilder {
	var b clauseBuilder
	if filter.OwnerID != nil {
		b.add("q.user_id = %s", *filter.OwnerID)
	}
	if filter.Status != nil {
		b.add("q.status = %s", string(*filter.Status))
	}
	return b
}

func (r *quotationRepository) List(ctx context.Context, filter QuotationFilter) ([]domain.Quotation, int64, error) {
	countClause := quotationFilterClause(filter)
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quotations q`+countClause.where(), countClause.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	b := quotationFilterClause(filter)
	query := quotationSelect + b.where() + " ORDER BY q.created_at DESC, q.id DESC" + b.page(filter.Limit, filter.Offset)
	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]domain.Quotation, 0)
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	if err := r.hydrate(ctx, result); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *quotationRepository) UpdateStatus(ctx context.Context, id int64, status domain.QuotationStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE quotations SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *quotationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM quotations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *quotationRepository) UpsertPersonalization(ctx context.Context, p domain.SnackPersonalization) error {
	const query = `
        INSERT INTO snack_personalizations (quotation_id, fruits, chips, toppings, updated_at)
        VALUES ($1,$2,$3,$4,NOW())
        ON CONFLICT (quotation_id) DO UPDATE
        SET fruits = EXCLUDED.fruits, chips = EXCLUDED.chips, toppings = EXCLUDED.toppings, updated_at = NOW()`
	_, err := r.db.Exec(ctx, query,
		p.QuotationID,
		nullableSelection(p.Fruits),
		nullableSelection(p.Chips),
		nullableSelection(p.Toppings),
	)
	return err
}

func (r *quotationRepository) GetPersonalization(ctx context.Context, quotationID int64) (*domain.SnackPersonalization, error) {
	const query = `
        SELECT quotation_id, fruits, chips, toppings, updated_at
        FROM snack_personalizations WHERE quotation_id=$1`
	return scanPersonalization(r.db.QueryRow(ctx, query, quotationID))
}

func (r *quotationRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quotations`).Scan(&total)
	return total, err
}

func (r *quotationRepository) CountByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM quotations GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.StatusCount, 0)
	for rows.Next() {
		var sc domain.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func (r *quotationRepository) TopEventTypes(ctx context.Context, limit int) ([]domain.EventTypeCount, error) {
	const query = `
        SELECT event_type, COUNT(*) AS total
        FROM quotations
        GROUP BY event_type
        ORDER BY total DESC, event_type
        LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEventTypeCounts(rows)
}

func (r *quotationRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quotations WHERE created_at >= $1`, since).Scan(&total)
	return total, err
}

// hydrate attaches line items and personalization to each quotation using
// one query per relation.
func (r *quotationRepository) hydrate(ctx context.Context, list []domain.Quotation) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, len(list))
	index := make(map[int64]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
		index[list[i].ID] = i
		list[i].Items = []domain.QuotationItem{}
	}

	const itemsQuery = `
        SELECT qi.quotation_id, ci.id, ci.name, ci.description, ci.type, ci.image_url, qi.quantity
        FROM quotation_items qi
        JOIN catalog_items ci ON ci.id = qi.catalog_item_id
        WHERE qi.quotation_id = ANY($1)
        ORDER BY qi.id`
	rows, err := r.db.Query(ctx, itemsQuery, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var item domain.QuotationItem
		if err := rows.Scan(
			&item.QuotationID,
			&item.CatalogItemID,
			&item.Name,
			&item.Description,
			&item.Type,
			&item.ImageURL,
			&item.Quantity,
		); err != nil {
			rows.Close()
			return err
		}
		i := index[item.QuotationID]
		list[i].Items = append(list[i].Items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	const personalizationQuery = `
        SELECT quotation_id, fruits, chips, toppings, updated_at
        FROM snack_personalizations WHERE quotation_id = ANY($1)`
	rows, err = r.db.Query(ctx, personalizationQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPersonalization(rows)
		if err != nil {
			return err
		}
		list[index[p.QuotationID]].Personalization = p
	}
	return rows.Err()
}

func scanQuotation(row scanner) (*domain.Quotation, error) {
	var (
		q     domain.Quotation
		owner domain.QuotationOwner
	)
	if err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.EventAddress,
		&q.EventDate,
		&q.EventTime,
		&q.EventType,
		&q.GuestCount,
		&q.SpecialRequests,
		&q.Status,
		&q.CreatedAt,
		&owner.FullName,
		&owner.Email,
		&owner.Phone,
	); err != nil {
		return nil, err
	}
	q.Owner = &owner
	return &q, nil
}

func scanPersonalization(row scanner) (*domain.SnackPersonalization, error) {
	var (
		p                       domain.SnackPersonalization
		fruits, chips, toppings *string
	)
	if err := row.Scan(&p.QuotationID, &fruits, &chips, &toppings, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Fruits = domain.ParseSelection(deref(fruits))
	p.Chips = domain.ParseSelection(deref(chips))
	p.Toppings = domain.ParseSelection(deref(toppings))
	return &p, nil
}

func scanEventTypeCounts(rows pgx.Rows) ([]domain.EventTypeCount, error) {
	result := make([]domain.EventTypeCount, 0)
	for rows.Next() {
		var ec domain.EventTypeCount
		if err := rows.Scan(&ec.EventType, &ec.Count); err != nil {
			return nil, err
		}
		result = append(result, ec)
	}
	return result, rows.Err()
}

func nullableSelection(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	joined := domain.JoinSelection(values)
	return &joined
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
