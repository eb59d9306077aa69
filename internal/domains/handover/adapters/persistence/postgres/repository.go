package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists handovers in PostgreSQL using GORM. Sections live in a
// single jsonb document; meta fields are columns so they can be filtered.
type Repository struct {
	db    *gorm.DB
	now   func() time.Time
	newID func() string
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db, now: time.Now, newID: uuid.NewString}
	if db != nil {
		_ = db.AutoMigrate(&handoverRecord{})
	}
	return repo
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

type handoverRecord struct {
	ID        string          `gorm:"primaryKey;column:id;size:64"`
	OwnerID   string          `gorm:"column:owner_id;index:idx_handovers_owner_status"`
	Status    string          `gorm:"column:status;type:varchar(16);index:idx_handovers_owner_status"`
	Version   int64           `gorm:"column:version"`
	Document  domain.Handover `gorm:"column:document;type:jsonb;serializer:json"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;index"`
}

func (handoverRecord) TableName() string { return "handovers" }

func (r *Repository) Create(ctx context.Context, handover domain.Handover) (domain.Handover, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Handover{}, err
	}
	doc := handover.Clone()
	doc.Normalize()
	if doc.Meta.ID == "" {
		doc.Meta.ID = r.newID()
	}
	now := r.now().UTC()
	doc.Meta.Version = 1
	doc.Meta.CreatedAt = now
	doc.Meta.UpdatedAt = now
	record := toRecord(doc)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return domain.Handover{}, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Handover, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Handover{}, err
	}
	var record handoverRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Handover{}, ports.ErrNotFound
		}
		return domain.Handover{}, err
	}
	return record.toDomain(), nil
}

// Update replaces the document when the caller holds the stored version.
func (r *Repository) Update(ctx context.Context, handover domain.Handover) (domain.Handover, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Handover{}, err
	}
	var out domain.Handover
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := lockRecord(tx, handover.Meta.ID)
		if err != nil {
			return err
		}
		if domain.Status(stored.Status) != domain.StatusDraft {
			return domain.ErrNotDraft
		}
		if stored.Version != handover.Meta.Version {
			return ports.ErrVersionConflict
		}
		doc := handover.Clone()
		doc.Normalize()
		doc.Meta.Version = stored.Version + 1
		doc.Meta.CreatedAt = stored.CreatedAt
		doc.Meta.UpdatedAt = r.now().UTC()
		doc.Meta.Status = domain.Status(stored.Status)
		doc.Meta.UserID = stored.OwnerID
		record := toRecord(doc)
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		out = record.toDomain()
		return nil
	})
	if err != nil {
		return domain.Handover{}, err
	}
	return out, nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Handover, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.SelectedAddress != "" {
		query = query.Where("document->'property'->>'selectedAddress' = ?", filter.SelectedAddress)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var records []handoverRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	handovers := make([]domain.Handover, 0, len(records))
	for i := range records {
		handovers = append(handovers, records[i].toDomain())
	}
	return handovers, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&handoverRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) SetStatus(ctx context.Context, id string, status domain.Status) (domain.Handover, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Handover{}, err
	}
	if _, err := domain.ParseStatus(string(status)); err != nil {
		return domain.Handover{}, err
	}
	var out domain.Handover
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := lockRecord(tx, id)
		if err != nil {
			return err
		}
		stored.Status = string(status)
		stored.Version++
		stored.UpdatedAt = r.now().UTC()
		if err := tx.Save(&stored).Error; err != nil {
			return err
		}
		out = stored.toDomain()
		return nil
	})
	if err != nil {
		return domain.Handover{}, err
	}
	return out, nil
}

func lockRecord(tx *gorm.DB, id string) (handoverRecord, error) {
	var record handoverRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return handoverRecord{}, ports.ErrNotFound
	}
	return record, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres handover repository not configured")
	}
	return nil
}

func toRecord(h domain.Handover) handoverRecord {
	return handoverRecord{
		ID:        h.Meta.ID,
		OwnerID:   h.Meta.UserID,
		Status:    string(h.Meta.Status),
		Version:   h.Meta.Version,
		Document:  h,
		CreatedAt: h.Meta.CreatedAt,
		UpdatedAt: h.Meta.UpdatedAt,
	}
}

// toDomain trusts the columns over the document's embedded meta.
func (r handoverRecord) toDomain() domain.Handover {
	h := r.Document.Clone()
	h.Normalize()
	h.Meta = domain.Meta{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Status:    domain.Status(r.Status),
		Version:   r.Version,
		UserID:    r.OwnerID,
	}
	return h
}
