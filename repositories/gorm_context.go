package repositories

import (
	"context"
	"errors"
	"fmt"

	"booking-api/config"
	"booking-api/domain"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDatabase abre la conexión según DB_DRIVER (postgres, mysql o sqlite)
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		dialector = postgres.Open(dsn)
	case "mysql":
		// Formato: usuario:password@tcp(host:puerto)/base_de_datos?opciones
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// Models lista las entidades que se migran.
// Los subtipos que comparten tabla se migran juntos para que la tabla tenga todas las columnas.
func Models() []any {
	return []any{
		&domain.Role{},
		&domain.User{},
		&domain.Listing{},
		&domain.ListingCategory{},
		&domain.ListingCategoryAssociation{},
		&domain.ListingFeature{},
		&domain.ListingRules{},
		&domain.ListingRating{},
		&domain.AmenityCategory{},
		&domain.Amenity{},
		&domain.ListingAmenities{},
		&domain.Reservation{},
		&domain.Review{},
		&domain.ScenicView{},
		&domain.StorageFile{},
		&domain.EmailTemplate{},
		&domain.SmsTemplate{},
		&domain.EmailHistory{},
		&domain.SmsHistory{},
		&domain.UserInfoVerificationCode{},
	}
}

// GormContext es el DataContext respaldado por una base relacional
type GormContext struct {
	dataSets
	db *gorm.DB
}

// NewGormContext crea el data context sobre una conexión de gorm
func NewGormContext(db *gorm.DB) *GormContext {
	c := &GormContext{db: db}

	c.users = newGormSet[domain.User](c, "users", nil)
	c.roles = newGormSet[domain.Role](c, "roles", nil)
	c.listings = newGormSet[domain.Listing](c, "listings", nil)
	c.listingCategories = newGormSet[domain.ListingCategory](c, "listing_categories", nil)
	c.listingCategoryAssociations = newGormSet[domain.ListingCategoryAssociation](c, "listing_category_associations", nil)
	c.listingFeatures = newGormSet[domain.ListingFeature](c, "listing_features", nil)
	c.listingRules = newGormSet[domain.ListingRules](c, "listing_rules", nil)
	c.listingRatings = newGormSet[domain.ListingRating](c, "listing_ratings", nil)
	c.amenities = newGormSet[domain.Amenity](c, "amenities", nil)
	c.amenityCategories = newGormSet[domain.AmenityCategory](c, "amenity_categories", nil)
	c.listingAmenities = newGormSet[domain.ListingAmenities](c, "listing_amenities", nil)
	c.reservations = newGormSet[domain.Reservation](c, "reservations", nil)
	c.reviews = newGormSet[domain.Review](c, "reviews", nil)
	c.scenicViews = newGormSet[domain.ScenicView](c, "scenic_views", nil)
	c.storageFiles = newGormSet[domain.StorageFile](c, "storage_files", nil)
	c.emailTemplates = newGormSet[domain.EmailTemplate](c, "email_templates", notificationType(domain.NotificationTypeEmail))
	c.smsTemplates = newGormSet[domain.SmsTemplate](c, "sms_templates", notificationType(domain.NotificationTypeSms))
	c.emailHistories = newGormSet[domain.EmailHistory](c, "email_histories", notificationType(domain.NotificationTypeEmail))
	c.smsHistories = newGormSet[domain.SmsHistory](c, "sms_histories", notificationType(domain.NotificationTypeSms))
	c.verificationCodes = newGormSet[domain.UserInfoVerificationCode](c, "verification_codes", nil)

	return c
}

// Migrate crea o actualiza las tablas de todas las entidades.
// Se migra un modelo a la vez: AutoMigrate con varios modelos de la misma
// tabla se queda con uno solo y las columnas propias del otro no se crean.
func (c *GormContext) Migrate(ctx context.Context) error {
	db := c.db.WithContext(ctx)
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	return nil
}

// SaveChanges aplica en una sola transacción los cambios pendientes del scope
func (c *GormContext) SaveChanges(ctx context.Context) error {
	return saveChanges(ctx, c.apply)
}

// Ping verifica la conexión con la base
func (c *GormContext) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *GormContext) apply(ctx context.Context, changes []change) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ch := range changes {
			var err error
			switch ch.op {
			case opAdd:
				err = tx.Create(ch.entity).Error
			case opUpdate:
				err = tx.Save(ch.entity).Error
			case opRemove:
				err = tx.Delete(ch.entity).Error
			}
			if err != nil {
				return fmt.Errorf("failed to %s %s: %w", ch.op, ch.set, err)
			}
		}
		return nil
	})
}

// notificationType filtra los subtipos que comparten tabla por su discriminador
func notificationType(t domain.NotificationType) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("type = ?", t)
	}
}

// gormSet implementa Set sobre una tabla
type gormSet[T any] struct {
	context *GormContext
	name    string
	scope   func(*gorm.DB) *gorm.DB
}

func newGormSet[T any](c *GormContext, name string, scope func(*gorm.DB) *gorm.DB) Set[T] {
	return &gormSet[T]{context: c, name: name, scope: scope}
}

func (s *gormSet[T]) query(ctx context.Context) *gorm.DB {
	db := s.context.db.WithContext(ctx)
	if s.scope != nil {
		db = db.Scopes(s.scope)
	}
	return db
}

// Query hace SELECT * FROM tabla WHERE is_deleted = false
func (s *gormSet[T]) Query(ctx context.Context) ([]*T, error) {
	var rows []*T
	if err := s.query(ctx).Where("is_deleted = ?", false).Order("created_time").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.name, err)
	}
	return rows, nil
}

// Find busca por ID, retorna nil si no existe
func (s *gormSet[T]) Find(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	err := s.query(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find %s %s: %w", s.name, id, err)
	}
	return &row, nil
}

func (s *gormSet[T]) Add(ctx context.Context, entity *T) error {
	return stage(ctx, s.context.apply, change{set: s.name, op: opAdd, entity: entity})
}

func (s *gormSet[T]) Update(ctx context.Context, entity *T) error {
	return stage(ctx, s.context.apply, change{set: s.name, op: opUpdate, entity: entity})
}

func (s *gormSet[T]) Remove(ctx context.Context, entity *T) error {
	return stage(ctx, s.context.apply, change{set: s.name, op: opRemove, entity: entity})
}
