package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/knova-ai/knova/pkg/register"
	"github.com/knova-ai/knova/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.DepartmentStore = NewDepartmentStore(provider)
	})
}

type DepartmentStore struct {
	CommonFields
}

func NewDepartmentStore(provider SqlProviderAchieve) *DepartmentStore {
	repo := &DepartmentStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_DEPARTMENT)
	repo.SetAllColumns("id", "name", "description", "created_at")
	return repo
}

func (s *DepartmentStore) Create(ctx context.Context, data types.Department) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "name", "description", "created_at").
		Values(data.ID, data.Name, data.Description, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *DepartmentStore) Get(ctx context.Context, id string) (*types.Department, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Department
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *DepartmentStore) Update(ctx context.Context, id, name, description string) error {
	query := sq.Update(s.GetTable()).
		Set("name", name).
		Set("description", description).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *DepartmentStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *DepartmentStore) List(ctx context.Context) ([]types.Department, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("created_at ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Department
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
