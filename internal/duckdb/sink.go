package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/genomicsops/gvcf-regions/internal/batch"
	"github.com/genomicsops/gvcf-regions/internal/region"
)

// WriteRegions batch-inserts studied regions using the Appender API.
func (s *Store) WriteRegions(regions []batch.RegionEntry) error {
	if len(regions) == 0 {
		return nil
	}

	appender, cleanup, err := s.appender("studied_regions")
	if err != nil {
		return err
	}
	defer cleanup()

	for _, r := range regions {
		if err := appender.AppendRow(
			r.Chrom, r.Start, r.End, r.RefAllele,
			r.RefBuild, r.PatientID, r.TestDate, r.TestID, r.SpecimenID,
			r.GenomicSourceClass, r.RatioAdDp, int64(r.SamplePosition),
		); err != nil {
			return fmt.Errorf("append region: %w", err)
		}
	}

	return appender.Flush()
}

// WritePositions batch-inserts expanded position records using the Appender API.
func (s *Store) WritePositions(positions []region.PositionRecord) error {
	if len(positions) == 0 {
		return nil
	}

	appender, cleanup, err := s.appender("position_records")
	if err != nil {
		return err
	}
	defer cleanup()

	for _, p := range positions {
		if err := appender.AppendRow(
			p.Chrom, p.Pos, p.Ref, p.Alt, p.GT, p.Filter,
			string(p.AllelicState), p.GenomicBuild,
			p.PatientID, p.TestDate, p.TestID, p.SpecimenID,
		); err != nil {
			return fmt.Errorf("append position record: %w", err)
		}
	}

	return appender.Flush()
}

// appender opens an Appender on a raw driver connection. The returned
// cleanup closes both the appender and the connection.
func (s *Store) appender(table string) (*goduckdb.Appender, func(), error) {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("get connection: %w", err)
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("create appender: %w", err)
	}

	cleanup := func() {
		appender.Close()
		conn.Close()
	}

	return appender, cleanup, nil
}

// CountRegions returns the number of stored studied regions.
func (s *Store) CountRegions() (int64, error) {
	return s.count("studied_regions")
}

// CountPositions returns the number of stored position records.
func (s *Store) CountPositions() (int64, error) {
	return s.count("position_records")
}

func (s *Store) count(table string) (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// PatientRegions queries the stored regions for one patient, ordered by
// chromosome and start position.
func (s *Store) PatientRegions(patientID string) ([]batch.RegionEntry, error) {
	rows, err := s.db.Query(`SELECT
		chrom, start_pos, end_pos, ref_allele,
		ref_build, patient_id, test_date, test_id, specimen_id,
		genomic_source_class, ratio_ad_dp, sample_position
		FROM studied_regions
		WHERE patient_id=?
		ORDER BY chrom, start_pos`, patientID)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	var entries []batch.RegionEntry
	for rows.Next() {
		var e batch.RegionEntry
		var samplePos int64
		if err := rows.Scan(
			&e.Chrom, &e.Start, &e.End, &e.RefAllele,
			&e.RefBuild, &e.PatientID, &e.TestDate, &e.TestID, &e.SpecimenID,
			&e.GenomicSourceClass, &e.RatioAdDp, &samplePos,
		); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		e.SamplePosition = int(samplePos)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}

	return entries, nil
}
