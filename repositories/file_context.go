package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"booking-api/domain"

	"github.com/google/uuid"
)

// FileContext es el DataContext respaldado por archivos JSON, un archivo por set
type FileContext struct {
	dataSets
	root   string
	mu     sync.Mutex
	stores map[string]fileStore
}

// fileStore es la parte no genérica de un fileSet que usa SaveChanges
type fileStore interface {
	begin() error
	apply(op changeOp, entity any) error
	rollback()
	flush() error
}

// NewFileContext crea el data context en el directorio root
func NewFileContext(root string) (*FileContext, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create file store directory: %w", err)
	}

	c := &FileContext{root: root, stores: make(map[string]fileStore)}

	c.users = newFileSet[domain.User](c, "users")
	c.roles = newFileSet[domain.Role](c, "roles")
	c.listings = newFileSet[domain.Listing](c, "listings")
	c.listingCategories = newFileSet[domain.ListingCategory](c, "listing_categories")
	c.listingCategoryAssociations = newFileSet[domain.ListingCategoryAssociation](c, "listing_category_associations")
	c.listingFeatures = newFileSet[domain.ListingFeature](c, "listing_features")
	c.listingRules = newFileSet[domain.ListingRules](c, "listing_rules")
	c.listingRatings = newFileSet[domain.ListingRating](c, "listing_ratings")
	c.amenities = newFileSet[domain.Amenity](c, "amenities")
	c.amenityCategories = newFileSet[domain.AmenityCategory](c, "amenity_categories")
	c.listingAmenities = newFileSet[domain.ListingAmenities](c, "listing_amenities")
	c.reservations = newFileSet[domain.Reservation](c, "reservations")
	c.reviews = newFileSet[domain.Review](c, "reviews")
	c.scenicViews = newFileSet[domain.ScenicView](c, "scenic_views")
	c.storageFiles = newFileSet[domain.StorageFile](c, "storage_files")
	c.emailTemplates = newFileSet[domain.EmailTemplate](c, "email_templates")
	c.smsTemplates = newFileSet[domain.SmsTemplate](c, "sms_templates")
	c.emailHistories = newFileSet[domain.EmailHistory](c, "email_histories")
	c.smsHistories = newFileSet[domain.SmsHistory](c, "sms_histories")
	c.verificationCodes = newFileSet[domain.UserInfoVerificationCode](c, "verification_codes")

	return c, nil
}

// SaveChanges aplica los cambios pendientes del scope y reescribe cada archivo tocado
func (c *FileContext) SaveChanges(ctx context.Context) error {
	return saveChanges(ctx, c.apply)
}

func (c *FileContext) apply(ctx context.Context, changes []change) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var touched []fileStore
	seen := make(map[string]bool)
	rollback := func() {
		for _, store := range touched {
			store.rollback()
		}
	}

	for _, ch := range changes {
		store, ok := c.stores[ch.set]
		if !ok {
			rollback()
			return fmt.Errorf("unknown set %q", ch.set)
		}
		if !seen[ch.set] {
			if err := store.begin(); err != nil {
				rollback()
				return err
			}
			seen[ch.set] = true
			touched = append(touched, store)
		}
		if err := store.apply(ch.op, ch.entity); err != nil {
			rollback()
			return fmt.Errorf("failed to %s %s: %w", ch.op, ch.set, err)
		}
	}

	for _, store := range touched {
		if err := store.flush(); err != nil {
			rollback()
			return err
		}
	}
	return nil
}

// fileSet guarda las filas de un set en memoria y las persiste en <root>/<name>.json
type fileSet[T any] struct {
	context  *FileContext
	name     string
	path     string
	loaded   bool
	rows     map[uuid.UUID]T
	snapshot map[uuid.UUID]T
}

func newFileSet[T any](c *FileContext, name string) Set[T] {
	set := &fileSet[T]{
		context: c,
		name:    name,
		path:    filepath.Join(c.root, name+".json"),
	}
	c.stores[name] = set
	return set
}

// load lee el archivo la primera vez que se usa el set. Requiere el lock del contexto.
func (s *fileSet[T]) load() error {
	if s.loaded {
		return nil
	}

	s.rows = make(map[uuid.UUID]T)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var rows []T
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("failed to decode %s: %w", s.path, err)
		}
	}
	for i := range rows {
		s.rows[idOf(&rows[i])] = rows[i]
	}
	s.loaded = true
	return nil
}

func (s *fileSet[T]) Query(ctx context.Context) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.context.mu.Lock()
	defer s.context.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	result := make([]*T, 0, len(s.rows))
	for _, row := range s.rows {
		row := row
		if recordOf(&row).IsDeleted {
			continue
		}
		result = append(result, &row)
	}
	sortByCreated(result)
	return result, nil
}

func (s *fileSet[T]) Find(ctx context.Context, id uuid.UUID) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.context.mu.Lock()
	defer s.context.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	row, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *fileSet[T]) Add(ctx context.Context, entity *T) error {
	return stage(ctx, s.context.apply, change{set: s.name, op: opAdd, entity: entity})
}

func (s *fileSet[T]) Update(ctx context.Context, entity *T) error {
	return stage(ctx, s.context.apply, change{set: s.name, op: opUpdate, entity: entity})
}

func (s *fileSet[T]) Remove(ctx context.Context, entity *T) error {
	return stage(ctx, s.context.apply, change{set: s.name, op: opRemove, entity: entity})
}

func (s *fileSet[T]) begin() error {
	if err := s.load(); err != nil {
		return err
	}
	s.snapshot = make(map[uuid.UUID]T, len(s.rows))
	for id, row := range s.rows {
		s.snapshot[id] = row
	}
	return nil
}

func (s *fileSet[T]) apply(op changeOp, entity any) error {
	row, ok := entity.(*T)
	if !ok {
		return fmt.Errorf("unexpected entity type %T", entity)
	}

	id := idOf(row)
	_, exists := s.rows[id]

	switch op {
	case opAdd:
		if exists {
			return fmt.Errorf("entity %s already exists", id)
		}
		s.rows[id] = *row
	case opUpdate:
		if !exists {
			return fmt.Errorf("entity %s does not exist", id)
		}
		s.rows[id] = *row
	case opRemove:
		delete(s.rows, id)
	}
	return nil
}

func (s *fileSet[T]) rollback() {
	if s.snapshot != nil {
		s.rows = s.snapshot
		s.snapshot = nil
	}
}

// flush escribe a un archivo temporal y lo renombra para no dejar archivos a medias
func (s *fileSet[T]) flush() error {
	rows := make([]*T, 0, len(s.rows))
	for _, row := range s.rows {
		row := row
		rows = append(rows, &row)
	}
	sortByCreated(rows)

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), s.name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", s.name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", s.name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.name, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	s.snapshot = nil
	return nil
}

func idOf[T any](row *T) uuid.UUID {
	if base := recordOf(row); base != nil {
		return base.ID
	}
	return uuid.Nil
}

func sortByCreated[T any](rows []*T) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := recordOf(rows[i]), recordOf(rows[j])
		if a.CreatedTime.Equal(b.CreatedTime) {
			return a.ID.String() < b.ID.String()
		}
		return a.CreatedTime.Before(b.CreatedTime)
	})
}
