package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SystemStatus represents the overall system status.
type SystemStatus struct {
	Status    HealthStatus     `json:"status"`
	Time      Timestamp        `json:"time"`
	Providers []ProviderStatus `json:"providers"`
	Cache     *CacheStatus     `json:"cache,omitempty"`
}

// ProviderStatus represents the status of an external provider.
type ProviderStatus struct {
	Provider      string       `json:"provider"`
	Status        HealthStatus `json:"status"`
	CircuitState  string       `json:"circuitState"`
	LastSuccessAt *Timestamp   `json:"lastSuccessAt,omitempty"`
	LastFailureAt *Timestamp   `json:"lastFailureAt,omitempty"`
	LastError     string       `json:"lastError,omitempty"`
}

// CacheStatus summarizes the search result cache.
type CacheStatus struct {
	Provider     string `json:"provider"`
	TotalEntries int    `json:"totalEntries"`
	FreshEntries int    `json:"freshEntries"`
	StaleEntries int    `json:"staleEntries"`
}
