// Package storage persists every ledger entity in a single BoltDB file, one
// bucket per entity, JSON-encoded records. The Store satisfies each product
// engine's state interface so the engines stay decoupled from the database.
package storage

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"bankvest/crypto"
	"bankvest/native/banking"
	"bankvest/native/lending"
	"bankvest/native/platform"
	"bankvest/native/savings"
	"bankvest/native/staking"
	"bankvest/native/vesting"
)

var (
	bucketPlatform  = []byte("platform")
	bucketBanking   = []byte("banking")
	bucketProfiles  = []byte("profiles")
	bucketCompanies = []byte("companies")
	bucketSchedules = []byte("schedules")
	bucketLoans     = []byte("loans")
	bucketPools     = []byte("pools")
	bucketSavings   = []byte("savings")

	// The platform is a singleton; it lives under one fixed key.
	platformKey = []byte("root")
)

// Store is the BoltDB-backed persistence layer shared by all engines.
type Store struct {
	db *bolt.DB
}

// Open initialises the database file and creates the entity buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	buckets := [][]byte{
		bucketPlatform, bucketBanking, bucketProfiles, bucketCompanies,
		bucketSchedules, bucketLoans, bucketPools, bucketSavings,
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) get(bucket, key []byte, out any) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucket).Get(key)
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, out)
	})
	return found, err
}

func (s *Store) put(bucket, key []byte, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(key, raw)
	})
}

// PlatformGet loads the singleton platform record.
func (s *Store) PlatformGet() (*platform.Platform, bool, error) {
	var rec platform.Platform
	ok, err := s.get(bucketPlatform, platformKey, &rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rec, true, nil
}

// PlatformPut stores the singleton platform record.
func (s *Store) PlatformPut(p *platform.Platform) error {
	return s.put(bucketPlatform, platformKey, p)
}

// BankingGet loads a custodial banking account by owner.
func (s *Store) BankingGet(addr crypto.Address) (*banking.Account, bool, error) {
	var rec banking.Account
	ok, err := s.get(bucketBanking, addr.Bytes(), &rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rec, true, nil
}

// BankingPut stores a custodial banking account.
func (s *Store) BankingPut(account *banking.Account) error {
	return s.put(bucketBanking, account.Owner.Bytes(), account)
}

// ProfileGet loads a participant usage profile by owner.
func (s *Store) ProfileGet(addr crypto.Address) (*banking.Profile, bool, error) {
	var rec banking.Profile
	ok, err := s.get(bucketProfiles, addr.Bytes(), &rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rec, true, nil
}

// ProfilePut stores a participant usage profile.
func (s *Store) ProfilePut(profile *banking.Profile) error {
	return s.put(bucketProfiles, profile.Owner.Bytes(), profile)
}

// CompanyGet loads a token issuer by identifier.
func (s *Store) CompanyGet(id crypto.RecordID) (*vesting.Company, bool, error) {
	var rec vesting.Company
	ok, err := s.get(bucketCompanies, id[:], &rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rec, true, nil
}

// CompanyPut stores a token issuer.
func (s *Store) CompanyPut(company *vesting.Company) error {
	return s.put(bucketCompanies, company.ID[:], company)
}

// ScheduleGet loads a vesting schedule by identifier.
func (s *Store) ScheduleGet(id crypto.RecordID) (*vesting.Schedule, bool, error) {
	var rec vesting.Schedule
	ok, err := s.get(bucketSchedules, id[:], &rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rec, true, nil
}

// SchedulePut stores a vesting schedule.
func (s *Store) SchedulePut(schedule *vesting.Schedule) error {
	return s.put(bucketSchedules, schedule.ID[:], schedule)
}

// LoanGet loads a loan by identifier.
func (s *Store) LoanGet(id crypto.RecordID) (*lending.Loan, bool, error) {
	var rec lending.Loan
	ok, err := s.get(bucketLoans, id[:], &rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rec, true, nil
}

// LoanPut stores a loan.
func (s *Store) LoanPut(loan *lending.Loan) error {
	return s.put(bucketLoans, loan.ID[:], loan)
}

// PoolGet loads the staking pool for an asset.
func (s *Store) PoolGet(asset crypto.Address) (*staking.Pool, bool, error) {
	var rec staking.Pool
	ok, err := s.get(bucketPools, asset.Bytes(), &rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rec, true, nil
}

// PoolPut stores a staking pool.
func (s *Store) PoolPut(pool *staking.Pool) error {
	return s.put(bucketPools, pool.Asset.Bytes(), pool)
}

// SavingsGet loads a savings account by identifier.
func (s *Store) SavingsGet(id crypto.RecordID) (*savings.Account, bool, error) {
	var rec savings.Account
	ok, err := s.get(bucketSavings, id[:], &rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rec, true, nil
}

// SavingsPut stores a savings account.
func (s *Store) SavingsPut(account *savings.Account) error {
	return s.put(bucketSavings, account.ID[:], account)
}
