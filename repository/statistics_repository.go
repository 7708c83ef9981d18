package repository

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// ageBracketExpr buckets beneficiaries by age in years, matching the brackets
// shown on the statistics page.
const ageBracketExpr = `CASE
	WHEN CAST((julianday('now') - julianday(date_of_birth)) / 365.25 AS INTEGER) BETWEEN 0 AND 5 THEN '0-5'
	WHEN CAST((julianday('now') - julianday(date_of_birth)) / 365.25 AS INTEGER) BETWEEN 6 AND 10 THEN '6-10'
	WHEN CAST((julianday('now') - julianday(date_of_birth)) / 365.25 AS INTEGER) BETWEEN 11 AND 15 THEN '11-15'
	WHEN CAST((julianday('now') - julianday(date_of_birth)) / 365.25 AS INTEGER) BETWEEN 16 AND 20 THEN '16-20'
	ELSE '21+'
END`

// guardianTypeExpr classifies each record by who is responsible for the child.
const guardianTypeExpr = `CASE
	WHEN father_name IS NOT NULL AND mother_name IS NOT NULL THEN 'Both Parents'
	WHEN father_name IS NOT NULL OR mother_name IS NOT NULL THEN 'Single Parent'
	WHEN guardian_name IS NOT NULL THEN 'Guardian'
	ELSE 'Other'
END`

// CountByLabel is one row of a grouped count.
type CountByLabel struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MonthlyCount is one month of the registration series.
type MonthlyCount struct {
	Month         string `json:"month"` // "2025-04"
	Beneficiaries int    `json:"beneficiaries"`
	Parents       int    `json:"parents"`
}

// Statistics is the aggregate view consumed by the statistics page.
type Statistics struct {
	TotalBeneficiaries   int            `json:"total_beneficiaries"`
	TotalParents         int            `json:"total_parents"`
	TotalGuardians       int            `json:"total_guardians"`
	DocumentCompletion   int            `json:"document_completion"` // percentage
	GuardianCoverage     int            `json:"guardian_coverage"`   // percentage
	AgeDistribution      []CountByLabel `json:"age_distribution"`
	LocationData         []CountByLabel `json:"location_data"`
	GenderData           []CountByLabel `json:"gender_data"`
	GuardianTypeData     []CountByLabel `json:"guardian_type_data"`
	OccupationData       []CountByLabel `json:"occupation_data"`
	MostCommonLocation   *CountByLabel  `json:"most_common_location,omitempty"`
	MostCommonOccupation *CountByLabel  `json:"most_common_occupation,omitempty"`
}

// StatisticsRepository runs read-only aggregation queries over the
// beneficiaries table. It works on the plain *sql.DB so the grouped-count
// queries can be composed with squirrel.
type StatisticsRepository struct {
	DB *sql.DB
}

// NewStatisticsRepository creates a new instance of StatisticsRepository
func NewStatisticsRepository(db *sql.DB) *StatisticsRepository {
	return &StatisticsRepository{DB: db}
}

func (r *StatisticsRepository) count(pred interface{}, args ...interface{}) (int, error) {
	queryBuilder := psql.Select("COUNT(*)").From("beneficiaries")
	if pred != nil {
		queryBuilder = queryBuilder.Where(pred, args...)
	}

	sqlStr, sqlArgs, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.DB.QueryRow(sqlStr, sqlArgs...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to run count query: %w", err)
	}
	return count, nil
}

// Total counts all beneficiary records
func (r *StatisticsRepository) Total() (int, error) {
	return r.count(nil)
}

// CountParents counts records with at least one parent recorded
func (r *StatisticsRepository) CountParents() (int, error) {
	return r.count("father_name IS NOT NULL OR mother_name IS NOT NULL")
}

// CountGuardians counts records with a guardian recorded
func (r *StatisticsRepository) CountGuardians() (int, error) {
	return r.count("guardian_name IS NOT NULL")
}

// CountCompleteProfiles counts records carrying both a profile image and at
// least one supporting document
func (r *StatisticsRepository) CountCompleteProfiles() (int, error) {
	return r.count("profile_image_path IS NOT NULL AND supporting_documents_paths IS NOT NULL AND supporting_documents_paths NOT IN ('', '[]', 'null')")
}

// CountByGender counts records with the given gender
func (r *StatisticsRepository) CountByGender(gender string) (int, error) {
	return r.count(sq.Eq{"gender": gender})
}

func (r *StatisticsRepository) groupedCounts(labelExpr string, pred interface{}, orderBy string, limit uint64) ([]CountByLabel, error) {
	queryBuilder := psql.Select(labelExpr+" AS label", "COUNT(*) AS count").
		From("beneficiaries").
		GroupBy("label")
	if pred != nil {
		queryBuilder = queryBuilder.Where(pred)
	}
	if orderBy != "" {
		queryBuilder = queryBuilder.OrderBy(orderBy)
	}
	if limit > 0 {
		queryBuilder = queryBuilder.Limit(limit)
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build grouped count query: %w", err)
	}

	rows, err := r.DB.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run grouped count query: %w", err)
	}
	defer rows.Close()

	var results []CountByLabel
	for rows.Next() {
		var row CountByLabel
		if err := rows.Scan(&row.Label, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan grouped count row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grouped count rows: %w", err)
	}
	return results, nil
}

// AgeDistribution groups beneficiaries into age brackets
func (r *StatisticsRepository) AgeDistribution() ([]CountByLabel, error) {
	return r.groupedCounts(ageBracketExpr, nil, "", 0)
}

// GenderDistribution groups beneficiaries by gender
func (r *StatisticsRepository) GenderDistribution() ([]CountByLabel, error) {
	return r.groupedCounts("gender", nil, "", 0)
}

// LocationDistribution returns the most common addresses
func (r *StatisticsRepository) LocationDistribution(limit uint64) ([]CountByLabel, error) {
	return r.groupedCounts("address", nil, "count DESC", limit)
}

// OccupationDistribution returns the most common occupations
func (r *StatisticsRepository) OccupationDistribution(limit uint64) ([]CountByLabel, error) {
	return r.groupedCounts("occupation", "occupation IS NOT NULL", "count DESC", limit)
}

// GuardianTypeDistribution groups beneficiaries by who cares for them
func (r *StatisticsRepository) GuardianTypeDistribution() ([]CountByLabel, error) {
	return r.groupedCounts(guardianTypeExpr, nil, "", 0)
}

// MonthlyRegistrations returns per-month registration counts, oldest month
// first, at most limit months.
func (r *StatisticsRepository) MonthlyRegistrations(limit uint64) ([]MonthlyCount, error) {
	queryBuilder := psql.Select(
		"strftime('%Y-%m', created_at) AS month",
		"COUNT(*) AS beneficiaries",
		`COUNT(DISTINCT CASE WHEN father_name IS NOT NULL OR mother_name IS NOT NULL
			THEN COALESCE(father_name, '') || COALESCE(mother_name, '') END) AS parents`,
	).
		From("beneficiaries").
		GroupBy("month").
		OrderBy("month")
	if limit > 0 {
		queryBuilder = queryBuilder.Limit(limit)
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly registrations query: %w", err)
	}

	rows, err := r.DB.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run monthly registrations query: %w", err)
	}
	defer rows.Close()

	var results []MonthlyCount
	for rows.Next() {
		var row MonthlyCount
		if err := rows.Scan(&row.Month, &row.Beneficiaries, &row.Parents); err != nil {
			return nil, fmt.Errorf("failed to scan monthly registrations row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly registration rows: %w", err)
	}
	return results, nil
}

func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(part)/float64(total)*100 + 0.5)
}

func first(rows []CountByLabel) *CountByLabel {
	if len(rows) == 0 {
		return nil
	}
	return &rows[0]
}

// Overview assembles the full statistics page payload
func (r *StatisticsRepository) Overview() (*Statistics, error) {
	total, err := r.Total()
	if err != nil {
		return nil, err
	}
	parents, err := r.CountParents()
	if err != nil {
		return nil, err
	}
	guardians, err := r.CountGuardians()
	if err != nil {
		return nil, err
	}
	complete, err := r.CountCompleteProfiles()
	if err != nil {
		return nil, err
	}
	ages, err := r.AgeDistribution()
	if err != nil {
		return nil, err
	}
	locations, err := r.LocationDistribution(5)
	if err != nil {
		return nil, err
	}
	genders, err := r.GenderDistribution()
	if err != nil {
		return nil, err
	}
	guardianTypes, err := r.GuardianTypeDistribution()
	if err != nil {
		return nil, err
	}
	occupations, err := r.OccupationDistribution(5)
	if err != nil {
		return nil, err
	}

	return &Statistics{
		TotalBeneficiaries:   total,
		TotalParents:         parents,
		TotalGuardians:       guardians,
		DocumentCompletion:   percentage(complete, total),
		GuardianCoverage:     percentage(guardians, total),
		AgeDistribution:      ages,
		LocationData:         locations,
		GenderData:           genders,
		GuardianTypeData:     guardianTypes,
		OccupationData:       occupations,
		MostCommonLocation:   first(locations),
		MostCommonOccupation: first(occupations),
	}, nil
}
