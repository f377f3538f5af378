// Package iocache persists upstream responses and calculation runs.
package iocache

import (
	"sync"

	"github.com/huangsam/fdr/internal/contract"
)

// CacheStoreManager manages the response cache and the analysis store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	response     contract.CacheStore
	analysis     contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetResponseStore returns the upstream response CacheStore.
func (mgr *CacheStoreManager) GetResponseStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.response
}

// GetAnalysisStore returns the analysis AnalysisStore.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
