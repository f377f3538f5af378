package iocache

import (
	"time"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetResponseStore implements the CacheManager interface.
func (m *MockCacheManager) GetResponseStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetAnalysisStore implements the CacheManager interface.
func (m *MockCacheManager) GetAnalysisStore() contract.AnalysisStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AnalysisStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockAnalysisStore is a mock implementation of AnalysisStore for testing.
type MockAnalysisStore struct {
	mock.Mock
}

var _ contract.AnalysisStore = &MockAnalysisStore{} // Compile-time check

// BeginRun implements the AnalysisStore interface.
func (m *MockAnalysisStore) BeginRun(startTime time.Time, params schema.RunParams) (int64, error) {
	args := m.Called(startTime, params)
	return args.Get(0).(int64), args.Error(1)
}

// RecordTeamRatings implements the AnalysisStore interface.
func (m *MockAnalysisStore) RecordTeamRatings(runID int64, ratings []schema.TeamRating) error {
	args := m.Called(runID, ratings)
	return args.Error(0)
}

// EndRun implements the AnalysisStore interface.
func (m *MockAnalysisStore) EndRun(runID int64, endTime time.Time, totalTeams int) error {
	args := m.Called(runID, endTime, totalTeams)
	return args.Error(0)
}

// GetStatus implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetStatus() (schema.AnalysisStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.AnalysisStatus), args.Error(1)
}

// GetAllRuns implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllRuns() ([]schema.AnalysisRunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.AnalysisRunRecord)
	return records, args.Error(1)
}

// GetAllTeamRatings implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllTeamRatings() ([]schema.TeamRatingRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.TeamRatingRecord)
	return records, args.Error(1)
}

// Close implements the AnalysisStore interface.
func (m *MockAnalysisStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
