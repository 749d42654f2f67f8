// Package github reads the contribution calendar and language breakdown from the GitHub GraphQL API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-portfolio/pkg/adapters/upstream"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/analytics"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"golang.org/x/oauth2"
)

const DefaultEndpoint = "https://api.github.com/graphql"

const contributionsQuery = `query($login: String!) {
  user(login: $login) {
    contributionsCollection {
      contributionCalendar {
        totalContributions
        weeks { contributionDays { date contributionCount } }
      }
    }
  }
}`

const languagesQuery = `query($login: String!) {
  user(login: $login) {
    repositories(first: 100, ownerAffiliations: OWNER, isFork: false, orderBy: {field: PUSHED_AT, direction: DESC}) {
      nodes {
        languages(first: 10, orderBy: {field: SIZE, direction: DESC}) {
          edges { size node { name color } }
        }
      }
    }
  }
}`

type Client struct {
	httpClient *http.Client
	endpoint   string
}

// New authenticates with a personal access token. An empty endpoint means api.github.com.
func New(ctx context.Context, token, endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	httpClient.Timeout = 15 * time.Second
	return &Client{httpClient: httpClient, endpoint: endpoint}
}

type graphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (c *Client) Contributions(ctx context.Context, username string) (domain.ContributionCalendar, error) {
	var data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
					Weeks              []struct {
						ContributionDays []struct {
							Date              string `json:"date"`
							ContributionCount int    `json:"contributionCount"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	}
	if err := c.query(ctx, contributionsQuery, username, &data); err != nil {
		return domain.ContributionCalendar{}, err
	}
	if data.User == nil {
		return domain.ContributionCalendar{}, fmt.Errorf("github: user %q: %w", username, domain.ErrNotFound)
	}

	cal := data.User.ContributionsCollection.ContributionCalendar
	out := domain.ContributionCalendar{Total: cal.TotalContributions, Days: []domain.ContributionDay{}}
	for _, week := range cal.Weeks {
		for _, day := range week.ContributionDays {
			out.Days = append(out.Days, domain.ContributionDay{
				Date:      day.Date,
				Count:     day.ContributionCount,
				Intensity: analytics.Intensity(int64(day.ContributionCount)),
			})
		}
	}
	return out, nil
}

// Languages sums language bytes across the user's own, non-fork repositories.
func (c *Client) Languages(ctx context.Context, username string) ([]domain.LanguageStat, error) {
	var data struct {
		User *struct {
			Repositories struct {
				Nodes []struct {
					Languages struct {
						Edges []struct {
							Size int64 `json:"size"`
							Node struct {
								Name  string `json:"name"`
								Color string `json:"color"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"languages"`
				} `json:"nodes"`
			} `json:"repositories"`
		} `json:"user"`
	}
	if err := c.query(ctx, languagesQuery, username, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, fmt.Errorf("github: user %q: %w", username, domain.ErrNotFound)
	}

	byName := map[string]*domain.LanguageStat{}
	var total int64
	for _, repo := range data.User.Repositories.Nodes {
		for _, edge := range repo.Languages.Edges {
			stat, ok := byName[edge.Node.Name]
			if !ok {
				stat = &domain.LanguageStat{Name: edge.Node.Name, Color: edge.Node.Color}
				byName[edge.Node.Name] = stat
			}
			stat.Bytes += edge.Size
			total += edge.Size
		}
	}

	stats := make([]domain.LanguageStat, 0, len(byName))
	for _, stat := range byName {
		if total > 0 {
			stat.Percentage = math.Round(float64(stat.Bytes)*1000/float64(total)) / 10
		}
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Bytes != stats[j].Bytes {
			return stats[i].Bytes > stats[j].Bytes
		}
		return stats[i].Name < stats[j].Name
	})
	return stats, nil
}

func (c *Client) query(ctx context.Context, query, login string, data any) error {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": map[string]string{"login": login},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github: %w", err)
	}
	defer resp.Body.Close()

	// exhausted rate limits come back as 403 with the reset time in headers
	if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
		return fmt.Errorf("github: %w", &domain.RateLimitError{RetryAfter: resetDelay(resp.Header, time.Now())})
	}
	if err := upstream.CheckStatus("github", resp); err != nil {
		return err
	}

	var body struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("github: decode response: %w", err)
	}
	if len(body.Errors) > 0 {
		e := body.Errors[0]
		if e.Type == "RATE_LIMITED" {
			return fmt.Errorf("github: %w", &domain.RateLimitError{RetryAfter: resetDelay(resp.Header, time.Now())})
		}
		if e.Type == "NOT_FOUND" {
			return fmt.Errorf("github: %s: %w", e.Message, domain.ErrNotFound)
		}
		return fmt.Errorf("github: %s", strings.TrimSpace(e.Message))
	}
	if len(body.Data) == 0 {
		return fmt.Errorf("github: response without data")
	}
	if err := json.Unmarshal(body.Data, data); err != nil {
		return fmt.Errorf("github: decode data: %w", err)
	}
	return nil
}

func resetDelay(h http.Header, now time.Time) time.Duration {
	if h.Get("Retry-After") != "" {
		return upstream.RetryAfter(h, now)
	}
	if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		if d := time.Unix(reset, 0).Sub(now); d > 0 {
			return d
		}
	}
	return upstream.DefaultRetryAfter
}

var _ ports.GitHubClient = (*Client)(nil)
