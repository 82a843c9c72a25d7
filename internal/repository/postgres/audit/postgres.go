package audit

import (
	"context"
	"strings"

	auditdomain "family-album-go/internal/domain/audit"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, log *auditdomain.Log) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, filter auditdomain.Filter) ([]auditdomain.LogView, int64, error) {
	query := r.base(ctx).Where("audit_logs.user_id = ?", userID)
	if filter.Action != "" {
		query = query.Where("audit_logs.action = ?", filter.Action)
	}
	return r.page(applyCommon(query, filter), filter)
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID string, filter auditdomain.Filter) ([]auditdomain.LogView, int64, error) {
	members := r.db.WithContext(ctx).Table("family_members").Select("user_id").Where("family_id = ?", familyID)
	query := r.base(ctx).Where("audit_logs.user_id IN (?)", members)
	if filter.Action != "" {
		query = query.Where(`audit_logs.action LIKE ? ESCAPE '\'`, "%"+escapeLike(filter.Action)+"%")
	}
	if filter.UserID != "" {
		query = query.Where("audit_logs.user_id = ?", filter.UserID)
	}
	return r.page(applyCommon(query, filter), filter)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes value match literally inside a LIKE pattern.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func (r *PostgresRepository) ActionTypes(ctx context.Context) ([]string, error) {
	var actions []string
	if err := r.db.WithContext(ctx).
		Model(&auditdomain.Log{}).
		Distinct("action").
		Order("action asc").
		Pluck("action", &actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *PostgresRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("audit_logs")
}

func applyCommon(query *gorm.DB, filter auditdomain.Filter) *gorm.DB {
	if filter.TargetID != "" {
		query = query.Where("audit_logs.target_id = ?", filter.TargetID)
	}
	if filter.StartDate != nil {
		query = query.Where("audit_logs.created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("audit_logs.created_at <= ?", *filter.EndDate)
	}
	return query
}

func (r *PostgresRepository) page(query *gorm.DB, filter auditdomain.Filter) ([]auditdomain.LogView, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	type logRow struct {
		auditdomain.Log
		UserName *string `gorm:"column:user_name"`
	}

	var rows []logRow
	if err := query.
		Select("audit_logs.*, users.display_name AS user_name").
		Joins("left join users on users.id = audit_logs.user_id").
		Order("audit_logs.created_at desc").
		Limit(filter.Page.Limit).
		Offset(filter.Page.Offset()).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]auditdomain.LogView, 0, len(rows))
	for _, row := range rows {
		items = append(items, auditdomain.LogView{Log: row.Log, UserName: row.UserName})
	}
	return items, total, nil
}
