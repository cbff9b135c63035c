package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, name, public_id_format, current_max_id`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.PublicIDFormat, &c.CurrentMaxID); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByName obtiene una categoría por nombre.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE name = $1`
	c, err := scanCategory(r.q.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE id = $1`
	c, err := scanCategory(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene la categoría y bloquea su fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *CategoryRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE id = $1 FOR UPDATE`
	c, err := scanCategory(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("lock category counter", fmt.Errorf("get category for update: %w", err))
	}
	return c, nil
}

// UpdateCurrentMaxID persiste el último secuencial asignado.
func (r *CategoryRepo) UpdateCurrentMaxID(ctx context.Context, id, currentMaxID int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE category SET current_max_id = $2 WHERE id = $1`, id, currentMaxID)
	if err != nil {
		return mapError("update category counter", fmt.Errorf("update current_max_id: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve todas las categorías ordenadas por ID.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM category ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var out []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListParents categorías padre permitidas de una categoría.
func (r *CategoryRepo) ListParents(ctx context.Context, categoryID int64) ([]entity.CategoryParent, error) {
	query := `
		SELECT category_id, parent_category_id, is_required
		FROM category_parent WHERE category_id = $1
		ORDER BY parent_category_id`
	rows, err := r.q.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list category parents: %w", err)
	}
	defer rows.Close()
	var out []entity.CategoryParent
	for rows.Next() {
		var p entity.CategoryParent
		if err := rows.Scan(&p.CategoryID, &p.ParentCategoryID, &p.IsRequired); err != nil {
			return nil, fmt.Errorf("scan category parent: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const fieldColumns = `id, category_id, name, display_name, type, config, is_active, is_required,
	priority, description, created_at, updated_at`

func scanField(row pgx.Row) (*entity.CategoryField, error) {
	var f entity.CategoryField
	var config []byte
	if err := row.Scan(&f.ID, &f.CategoryID, &f.Name, &f.DisplayName, &f.Type, &config,
		&f.IsActive, &f.IsRequired, &f.Priority, &f.Description, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Config = config
	return &f, nil
}

// ListActiveFields campos activos de la categoría por prioridad ascendente.
func (r *CategoryRepo) ListActiveFields(ctx context.Context, categoryID int64) ([]*entity.CategoryField, error) {
	query := `SELECT ` + fieldColumns + `
		FROM category_field WHERE category_id = $1 AND is_active
		ORDER BY priority, id`
	rows, err := r.q.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list active fields: %w", err)
	}
	defer rows.Close()
	var out []*entity.CategoryField
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category field: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Upsert crea o actualiza la categoría por nombre; nunca toca current_max_id de una existente.
func (r *CategoryRepo) Upsert(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO category (name, public_id_format, current_max_id)
		VALUES ($1, $2, 0)
		ON CONFLICT (name) DO UPDATE SET public_id_format = EXCLUDED.public_id_format
		RETURNING id, current_max_id`
	if err := r.q.QueryRow(ctx, query, c.Name, c.PublicIDFormat).Scan(&c.ID, &c.CurrentMaxID); err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

// UpsertField crea o actualiza un campo por (category_id, name).
func (r *CategoryRepo) UpsertField(ctx context.Context, f *entity.CategoryField) error {
	config := []byte(f.Config)
	if len(config) == 0 {
		config = nil
	}
	query := `
		INSERT INTO category_field (category_id, name, display_name, type, config, is_active, is_required,
			priority, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (category_id, name) DO UPDATE SET
			display_name = EXCLUDED.display_name, type = EXCLUDED.type, config = EXCLUDED.config,
			is_active = EXCLUDED.is_active, is_required = EXCLUDED.is_required,
			priority = EXCLUDED.priority, description = EXCLUDED.description, updated_at = now()
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, f.CategoryID, f.Name, f.DisplayName, f.Type, config,
		f.IsActive, f.IsRequired, f.Priority, f.Description,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert category field: %w", err)
	}
	return nil
}

// UpsertParent registra la categoría padre permitida.
func (r *CategoryRepo) UpsertParent(ctx context.Context, p entity.CategoryParent) error {
	query := `
		INSERT INTO category_parent (category_id, parent_category_id, is_required)
		VALUES ($1, $2, $3)
		ON CONFLICT (category_id, parent_category_id) DO UPDATE SET is_required = EXCLUDED.is_required`
	if _, err := r.q.Exec(ctx, query, p.CategoryID, p.ParentCategoryID, p.IsRequired); err != nil {
		return fmt.Errorf("upsert category parent: %w", err)
	}
	return nil
}
