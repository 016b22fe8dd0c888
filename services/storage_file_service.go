package services

import (
	"context"
	"strings"

	"booking-api/domain"
	"booking-api/repositories"
)

type StorageFileService interface {
	EntityService[domain.StorageFile]
}

type storageFileService struct {
	*entityService[domain.StorageFile]
}

func NewStorageFileService(dc repositories.DataContext) StorageFileService {
	return &storageFileService{entityService: newEntityService(dc, dc.StorageFiles(), "StorageFile")}
}

func (s *storageFileService) Create(ctx context.Context, file *domain.StorageFile, saveChanges bool) (*domain.StorageFile, error) {
	if err := s.validate(file); err != nil {
		return nil, err
	}
	return s.add(ctx, file, saveChanges)
}

func (s *storageFileService) Update(ctx context.Context, file *domain.StorageFile, saveChanges bool) (*domain.StorageFile, error) {
	found, err := s.GetByID(ctx, file.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(file); err != nil {
		return nil, err
	}

	found.FileName = file.FileName
	found.Path = file.Path
	found.ContentType = file.ContentType
	found.Size = file.Size
	return s.update(ctx, found, saveChanges)
}

func (s *storageFileService) validate(file *domain.StorageFile) error {
	file.FileName = strings.TrimSpace(file.FileName)
	if file.FileName == "" {
		return s.invalid("file name is required")
	}
	if file.Size < 0 {
		return s.invalid("file size cannot be negative")
	}
	return nil
}

type ScenicViewService interface {
	EntityService[domain.ScenicView]
}

type scenicViewService struct {
	*entityService[domain.ScenicView]
}

func NewScenicViewService(dc repositories.DataContext) ScenicViewService {
	return &scenicViewService{entityService: newEntityService(dc, dc.ScenicViews(), "ScenicView")}
}

func (s *scenicViewService) Create(ctx context.Context, view *domain.ScenicView, saveChanges bool) (*domain.ScenicView, error) {
	if err := s.validate(ctx, view); err != nil {
		return nil, err
	}
	return s.add(ctx, view, saveChanges)
}

func (s *scenicViewService) Update(ctx context.Context, view *domain.ScenicView, saveChanges bool) (*domain.ScenicView, error) {
	found, err := s.GetByID(ctx, view.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, view); err != nil {
		return nil, err
	}

	found.Name = view.Name
	return s.update(ctx, found, saveChanges)
}

func (s *scenicViewService) validate(ctx context.Context, view *domain.ScenicView) error {
	view.Name = strings.TrimSpace(view.Name)
	if view.Name == "" {
		return s.invalid("scenic view name is required")
	}
	taken, err := s.exists(ctx, func(v *domain.ScenicView) bool {
		return v.ID != view.ID && strings.EqualFold(v.Name, view.Name)
	})
	if err != nil {
		return err
	}
	if taken {
		return s.duplicate("scenic view %q already exists", view.Name)
	}
	return nil
}
