package types

// CloudflareConfig holds configuration for the optional Cloudflare integration
type CloudflareConfig struct {
	Enabled       bool   `mapstructure:"enabled"`        // Whether Cloudflare integration is enabled
	APIToken      string `mapstructure:"api_token"`      // Cloudflare API token for authentication
	ZoneID        string `mapstructure:"zone_id"`        // Cloudflare Zone ID
	BaseDomain    string `mapstructure:"base_domain"`    // Sites are served under *.BaseDomain
	ServerAddress string `mapstructure:"server_address"` // Public IP of this host
	Proxied       bool   `mapstructure:"proxied"`        // Whether the record is proxied through Cloudflare
}

// CloudflareDNSRecord represents the wildcard record pointing at the proxy host
type CloudflareDNSRecord struct {
	RecordID string `json:"record_id"` // Cloudflare Record ID
	Name     string `json:"name"`      // The full name, e.g. "*.example.com"
	Content  string `json:"content"`   // IP address
	Type     string `json:"type"`      // Always "A"
	Proxied  bool   `json:"proxied"`   // Whether the record is proxied through Cloudflare
}
