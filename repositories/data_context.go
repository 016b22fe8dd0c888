package repositories

import (
	"context"
	"sync"

	"booking-api/domain"

	"github.com/google/uuid"
)

// Set define las operaciones de acceso a datos de un tipo de entidad.
// Query solo devuelve filas no borradas. Find devuelve la fila aunque esté
// borrada lógicamente, o nil si no existe.
// Add, Update y Remove se encolan en el change scope del contexto si hay uno;
// si no, se aplican inmediatamente.
type Set[T any] interface {
	Query(ctx context.Context) ([]*T, error)
	Find(ctx context.Context, id uuid.UUID) (*T, error)
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Remove(ctx context.Context, entity *T) error
}

// DataContext agrupa los sets de todas las entidades
type DataContext interface {
	Users() Set[domain.User]
	Roles() Set[domain.Role]
	Listings() Set[domain.Listing]
	ListingCategories() Set[domain.ListingCategory]
	ListingCategoryAssociations() Set[domain.ListingCategoryAssociation]
	ListingFeatures() Set[domain.ListingFeature]
	ListingRules() Set[domain.ListingRules]
	ListingRatings() Set[domain.ListingRating]
	Amenities() Set[domain.Amenity]
	AmenityCategories() Set[domain.AmenityCategory]
	ListingAmenities() Set[domain.ListingAmenities]
	Reservations() Set[domain.Reservation]
	Reviews() Set[domain.Review]
	ScenicViews() Set[domain.ScenicView]
	StorageFiles() Set[domain.StorageFile]
	EmailTemplates() Set[domain.EmailTemplate]
	SmsTemplates() Set[domain.SmsTemplate]
	EmailHistories() Set[domain.EmailHistory]
	SmsHistories() Set[domain.SmsHistory]
	VerificationCodes() Set[domain.UserInfoVerificationCode]

	// SaveChanges aplica todos los cambios pendientes del change scope del contexto
	SaveChanges(ctx context.Context) error
}

type changeOp int

const (
	opAdd changeOp = iota
	opUpdate
	opRemove
)

func (op changeOp) String() string {
	switch op {
	case opAdd:
		return "add"
	case opUpdate:
		return "update"
	default:
		return "remove"
	}
}

// change es una escritura pendiente sobre un set
type change struct {
	set    string
	op     changeOp
	entity any
}

// applyFunc aplica un lote de cambios de forma atómica en el backend
type applyFunc func(ctx context.Context, changes []change) error

// changeTracker acumula las escrituras de un request hasta SaveChanges
type changeTracker struct {
	mu      sync.Mutex
	changes []change
}

func (t *changeTracker) add(c change) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.changes = append(t.changes, c)
}

// drain devuelve los cambios pendientes y vacía el tracker
func (t *changeTracker) drain() []change {
	t.mu.Lock()
	defer t.mu.Unlock()
	changes := t.changes
	t.changes = nil
	return changes
}

func (t *changeTracker) pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.changes)
}

type trackerKey struct{}

// WithChangeScope abre un change scope: las escrituras hechas con el
// contexto devuelto quedan pendientes hasta SaveChanges.
func WithChangeScope(ctx context.Context) context.Context {
	if trackerFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, trackerKey{}, &changeTracker{})
}

// PendingChanges retorna cuántas escrituras esperan SaveChanges en el scope
func PendingChanges(ctx context.Context) int {
	if tracker := trackerFrom(ctx); tracker != nil {
		return tracker.pending()
	}
	return 0
}

func trackerFrom(ctx context.Context) *changeTracker {
	tracker, _ := ctx.Value(trackerKey{}).(*changeTracker)
	return tracker
}

// stage encola el cambio si hay scope, si no lo aplica en el momento
func stage(ctx context.Context, apply applyFunc, c change) error {
	if tracker := trackerFrom(ctx); tracker != nil {
		tracker.add(c)
		return nil
	}
	return apply(ctx, []change{c})
}

// saveChanges aplica lo pendiente en el scope del contexto
func saveChanges(ctx context.Context, apply applyFunc) error {
	tracker := trackerFrom(ctx)
	if tracker == nil {
		return nil
	}
	changes := tracker.drain()
	if len(changes) == 0 {
		return nil
	}
	return apply(ctx, changes)
}

// recordOf accede a los campos comunes de una entidad genérica
func recordOf(entity any) *domain.Entity {
	if record, ok := entity.(domain.Record); ok {
		return record.Base()
	}
	return nil
}

// dataSets implementa los accessors de DataContext para cualquier backend
type dataSets struct {
	users                       Set[domain.User]
	roles                       Set[domain.Role]
	listings                    Set[domain.Listing]
	listingCategories           Set[domain.ListingCategory]
	listingCategoryAssociations Set[domain.ListingCategoryAssociation]
	listingFeatures             Set[domain.ListingFeature]
	listingRules                Set[domain.ListingRules]
	listingRatings              Set[domain.ListingRating]
	amenities                   Set[domain.Amenity]
	amenityCategories           Set[domain.AmenityCategory]
	listingAmenities            Set[domain.ListingAmenities]
	reservations                Set[domain.Reservation]
	reviews                     Set[domain.Review]
	scenicViews                 Set[domain.ScenicView]
	storageFiles                Set[domain.StorageFile]
	emailTemplates              Set[domain.EmailTemplate]
	smsTemplates                Set[domain.SmsTemplate]
	emailHistories              Set[domain.EmailHistory]
	smsHistories                Set[domain.SmsHistory]
	verificationCodes           Set[domain.UserInfoVerificationCode]
}

func (d *dataSets) Users() Set[domain.User] {
	return d.users
}

func (d *dataSets) Roles() Set[domain.Role] {
	return d.roles
}

func (d *dataSets) Listings() Set[domain.Listing] {
	return d.listings
}

func (d *dataSets) ListingCategories() Set[domain.ListingCategory] {
	return d.listingCategories
}

func (d *dataSets) ListingCategoryAssociations() Set[domain.ListingCategoryAssociation] {
	return d.listingCategoryAssociations
}

func (d *dataSets) ListingFeatures() Set[domain.ListingFeature] {
	return d.listingFeatures
}

func (d *dataSets) ListingRules() Set[domain.ListingRules] {
	return d.listingRules
}

func (d *dataSets) ListingRatings() Set[domain.ListingRating] {
	return d.listingRatings
}

func (d *dataSets) Amenities() Set[domain.Amenity] {
	return d.amenities
}

func (d *dataSets) AmenityCategories() Set[domain.AmenityCategory] {
	return d.amenityCategories
}

func (d *dataSets) ListingAmenities() Set[domain.ListingAmenities] {
	return d.listingAmenities
}

func (d *dataSets) Reservations() Set[domain.Reservation] {
	return d.reservations
}

func (d *dataSets) Reviews() Set[domain.Review] {
	return d.reviews
}

func (d *dataSets) ScenicViews() Set[domain.ScenicView] {
	return d.scenicViews
}

func (d *dataSets) StorageFiles() Set[domain.StorageFile] {
	return d.storageFiles
}

func (d *dataSets) EmailTemplates() Set[domain.EmailTemplate] {
	return d.emailTemplates
}

func (d *dataSets) SmsTemplates() Set[domain.SmsTemplate] {
	return d.smsTemplates
}

func (d *dataSets) EmailHistories() Set[domain.EmailHistory] {
	return d.emailHistories
}

func (d *dataSets) SmsHistories() Set[domain.SmsHistory] {
	return d.smsHistories
}

func (d *dataSets) VerificationCodes() Set[domain.UserInfoVerificationCode] {
	return d.verificationCodes
}
