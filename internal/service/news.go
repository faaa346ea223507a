package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"garrison/internal/model"

	"gorm.io/gorm"
)

// LatestNewsLimit caps the public news listing.
const LatestNewsLimit = 10

type NewsService struct {
	db     *gorm.DB
	render *Renderer
}

func NewNewsService(db *gorm.DB, render *Renderer) *NewsService {
	return &NewsService{db: db, render: render}
}

func (s *NewsService) View(n *model.News) model.NewsView {
	return model.NewsView{News: *n, Date: n.Date.Format(model.DateLayout), ContentHTML: s.render.Render(n.Content)}
}

func (s *NewsService) Latest(ctx context.Context) ([]model.News, error) {
	var items []model.News
	err := s.db.WithContext(ctx).Order("date DESC").Order("id DESC").Limit(LatestNewsLimit).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

func (s *NewsService) Get(ctx context.Context, id int) (*model.News, error) {
	var n model.News
	err := s.db.WithContext(ctx).First(&n, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound(msgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get news %d: %w", id, err)
	}
	return &n, nil
}

func (s *NewsService) Create(ctx context.Context, req model.NewsCreateRequest) (*model.News, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, Invalid("Заголовок и текст новости обязательны")
	}
	n := model.News{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category.Or(""),
		Author:   req.Author.Or(model.DefaultNewsAuthor),
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, fmt.Errorf("create news: %w", err)
	}
	return &n, nil
}

// Update applies only the fields present in req. An empty request is a
// successful no-op.
func (s *NewsService) Update(ctx context.Context, id int, req model.NewsUpdateRequest) error {
	n, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	changes := map[string]any{}
	if req.Title.Set {
		changes["title"] = req.Title.Or(n.Title)
	}
	if req.Content.Set {
		changes["content"] = req.Content.Or(n.Content)
	}
	if req.Category.Set {
		changes["category"] = req.Category.Or(n.Category)
	}
	if req.Author.Set {
		changes["author"] = req.Author.Or(n.Author)
	}
	if len(changes) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(n).Updates(changes).Error
}

func (s *NewsService) Delete(ctx context.Context, id int) error {
	n, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(n).Error
}
