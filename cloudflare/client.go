package cloudflare

import (
	"context"
	"fmt"
	"log"

	cf "github.com/cloudflare/cloudflare-go"

	"globalstack/types"
)

// dnsAPI is the part of *cf.API used here.
type dnsAPI interface {
	ListDNSRecords(ctx context.Context, rc *cf.ResourceContainer, params cf.ListDNSRecordsParams) ([]cf.DNSRecord, *cf.ResultInfo, error)
	CreateDNSRecord(ctx context.Context, rc *cf.ResourceContainer, params cf.CreateDNSRecordParams) (cf.DNSRecord, error)
}

// Client keeps the wildcard record for sites behind the proxy in place.
type Client struct {
	api    dnsAPI
	config types.CloudflareConfig
}

// NewClient creates a new Cloudflare API client. A disabled config yields a
// client whose EnsureProxyRecord is a no-op.
func NewClient(config types.CloudflareConfig) (*Client, error) {
	if !config.Enabled {
		return &Client{config: config}, nil
	}

	api, err := cf.NewWithAPIToken(config.APIToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudflare API client: %w", err)
	}

	return &Client{api: api, config: config}, nil
}

// RecordName is the wildcard name covering every site, e.g. "*.example.com".
func (c *Client) RecordName() string {
	return "*." + c.config.BaseDomain
}

// EnsureProxyRecord creates the wildcard A record when it is missing. A record
// pointing somewhere else is reported, not overwritten.
func (c *Client) EnsureProxyRecord(ctx context.Context) error {
	if !c.config.Enabled || c.api == nil {
		log.Printf("Cloudflare: Integration disabled. Would ensure %s -> %s", c.RecordName(), c.config.ServerAddress)
		return nil
	}

	_, err := c.ensure(ctx)
	return err
}

func (c *Client) ensure(ctx context.Context) (*types.CloudflareDNSRecord, error) {
	zone := cf.ZoneIdentifier(c.config.ZoneID)
	name := c.RecordName()

	records, _, err := c.api.ListDNSRecords(ctx, zone, cf.ListDNSRecordsParams{Type: "A", Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to list DNS records for %s: %w", name, err)
	}
	for _, r := range records {
		if r.Content != c.config.ServerAddress {
			return nil, fmt.Errorf("DNS record %s points to %s, expected %s", name, r.Content, c.config.ServerAddress)
		}
		log.Printf("Cloudflare: DNS record %s already points to %s", name, r.Content)
		return toRecord(r), nil
	}

	proxied := c.config.Proxied
	log.Printf("Cloudflare: Creating DNS record for %s -> %s", name, c.config.ServerAddress)
	record, err := c.api.CreateDNSRecord(ctx, zone, cf.CreateDNSRecordParams{
		Type:    "A",
		Name:    name,
		Content: c.config.ServerAddress,
		TTL:     1, // automatic
		Proxied: &proxied,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DNS record: %w", err)
	}
	log.Printf("Cloudflare: Created DNS record for %s (ID: %s)", name, record.ID)
	return toRecord(record), nil
}

func toRecord(r cf.DNSRecord) *types.CloudflareDNSRecord {
	proxied := false
	if r.Proxied != nil {
		proxied = *r.Proxied
	}
	return &types.CloudflareDNSRecord{
		RecordID: r.ID,
		Name:     r.Name,
		Content:  r.Content,
		Type:     r.Type,
		Proxied:  proxied,
	}
}
