package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
)

const tenuresTable = "coach_tenures"

type tenureTableModel struct {
	ID int64 `db:"id"`
	tenureWriteModel
	CreatedAt time.Time `db:"created_at"`
}

type tenureWriteModel struct {
	Name        string       `db:"name"`
	BirthDate   sql.NullTime `db:"birth_date"`
	StartDate   time.Time    `db:"start_date"`
	EndDate     sql.NullTime `db:"end_date"`
	CollectedAt time.Time    `db:"collected_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

func newTenureWriteModel(item tenure.Tenure, now time.Time) tenureWriteModel {
	return tenureWriteModel{
		Name:        item.Name,
		BirthDate:   nullDate(item.BirthDate),
		StartDate:   dateUTC(item.StartDate),
		EndDate:     nullDate(item.EndDate),
		CollectedAt: dateUTC(item.CollectedAt),
		UpdatedAt:   now,
	}
}

func (m tenureTableModel) toDomain() tenure.Tenure {
	return tenure.Tenure{
		ID:          m.ID,
		Name:        m.Name,
		BirthDate:   datePtr(m.BirthDate),
		StartDate:   dateUTC(m.StartDate),
		EndDate:     datePtr(m.EndDate),
		CollectedAt: dateUTC(m.CollectedAt),
		CreatedAt:   m.CreatedAt,
	}
}
