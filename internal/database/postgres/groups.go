package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/repository"
)

const (
	selectGroupSQL = `SELECT group_name, updated_at FROM message_groups WHERE group_id = $1`

	selectUsersSQL = `
SELECT user_id, nickname, message_count, roles
FROM message_users
WHERE group_id = $1
ORDER BY position`

	selectHistorySQL = `
SELECT user_id, day, count
FROM message_history
WHERE group_id = $1
ORDER BY user_id, position`

	upsertGroupSQL = `
INSERT INTO message_groups (group_id, group_name, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (group_id) DO UPDATE
SET group_name = EXCLUDED.group_name, updated_at = EXCLUDED.updated_at`

	deleteUsersSQL = `DELETE FROM message_users WHERE group_id = $1`
	deleteGroupSQL = `DELETE FROM message_groups WHERE group_id = $1`
	listGroupsSQL  = `SELECT group_id FROM message_groups ORDER BY group_id`
)

var (
	usersTable   = pgx.Identifier{"message_users"}
	usersColumns = []string{"group_id", "user_id", "position", "nickname", "message_count", "roles"}

	historyTable   = pgx.Identifier{"message_history"}
	historyColumns = []string{"group_id", "user_id", "position", "day", "count"}
)

// GroupRepository stores group records across the message_* tables.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(pool *pgxpool.Pool) repository.Groups {
	return &GroupRepository{pool: pool}
}

// LoadGroup reads a group, its users in first-seen order, and their history
// buckets in insertion order.
func (r *GroupRepository) LoadGroup(ctx context.Context, groupID string) (*domain.GroupStore, error) {
	g := &domain.GroupStore{GroupID: groupID}

	err := r.pool.QueryRow(ctx, selectGroupSQL, groupID).Scan(&g.GroupName, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryGroup, err)
	}

	rows, err := r.pool.Query(ctx, selectUsersSQL, groupID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryUsers, err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.UserRecord, error) {
		var u domain.UserRecord
		if err := row.Scan(&u.UserID, &u.Nickname, &u.MessageCount, &u.Roles); err != nil {
			return nil, err
		}
		return &u, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryUsers, err)
	}
	g.Users = users

	byID := make(map[string]*domain.UserRecord, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	rows, err = r.pool.Query(ctx, selectHistorySQL, groupID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryHistory, err)
	}
	var (
		userID string
		day    pgtype.Date
		count  int
	)
	_, err = pgx.ForEachRow(rows, []any{&userID, &day, &count}, func() error {
		u, ok := byID[userID]
		if !ok {
			return fmt.Errorf("%s: %s", ErrMsgHistoryForUnknownUser, userID)
		}
		u.History = append(u.History, domain.HistoryEntry{Date: fromPgDate(day), Count: count})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryHistory, err)
	}

	return g, nil
}

// SaveGroup replaces the stored users and history of the group in one transaction.
func (r *GroupRepository) SaveGroup(ctx context.Context, group *domain.GroupStore) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx, upsertGroupSQL, group.GroupID, group.GroupName, group.UpdatedAt); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertGroup, err)
	}
	// history rows cascade with their users
	if _, err := tx.Exec(ctx, deleteUsersSQL, group.GroupID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToClearGroup, err)
	}

	userRows := make([][]any, 0, len(group.Users))
	var historyRows [][]any
	seen := make(map[string]struct{}, len(group.Users))
	for pos, u := range group.Users {
		if _, dup := seen[u.UserID]; dup {
			continue
		}
		seen[u.UserID] = struct{}{}
		userRows = append(userRows, []any{group.GroupID, u.UserID, pos, u.Nickname, u.MessageCount, u.Roles})
		for i, e := range u.History {
			historyRows = append(historyRows, []any{group.GroupID, u.UserID, i, toPgDate(e.Date), e.Count})
		}
	}

	if _, err := tx.CopyFrom(ctx, usersTable, usersColumns, pgx.CopyFromRows(userRows)); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCopyUsers, err)
	}
	if len(historyRows) > 0 {
		if _, err := tx.CopyFrom(ctx, historyTable, historyColumns, pgx.CopyFromRows(historyRows)); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToCopyHistory, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// DeleteGroup removes the group; users and history cascade.
func (r *GroupRepository) DeleteGroup(ctx context.Context, groupID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteGroupSQL, groupID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToDeleteGroup, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListGroups returns every stored group id in ascending order.
func (r *GroupRepository) ListGroups(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listGroupsSQL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGroups, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGroups, err)
	}
	return ids, nil
}
