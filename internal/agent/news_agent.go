package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/brightdesk/portal/internal/llm"
	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/repository"
	"github.com/brightdesk/portal/internal/service"
	"github.com/brightdesk/portal/pkg/monitoring"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	// LockKey guards against overlapping agent runs. Best effort: the TTL
	// releases the lock if a run crashes without cleanup.
	LockKey = "news_agent:lock"
	LockTTL = 5 * time.Minute

	maxItemsPerRun   = 10
	summaryFallbackN = 280
)

// ErrLocked is returned when another run currently holds the lock.
var ErrLocked = errors.New("news agent is already running")

// FeedItem is one article from the external news feed.
type FeedItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type NewsAgent struct {
	redis      *redis.Client
	llm        *llm.Client
	news       service.NewsService
	postRepo   repository.PostRepository
	feedURL    string
	httpClient *http.Client
}

func NewNewsAgent(redisClient *redis.Client, llmClient *llm.Client, news service.NewsService, postRepo repository.PostRepository, feedURL string) *NewsAgent {
	return &NewsAgent{
		redis:      redisClient,
		llm:        llmClient,
		news:       news,
		postRepo:   postRepo,
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Run executes one fetch-summarize-insert pass under the advisory lock.
func (a *NewsAgent) Run(ctx context.Context) error {
	runID := uuid.NewString()
	ok, err := a.redis.SetNX(ctx, LockKey, runID, LockTTL).Result()
	if err != nil {
		monitoring.AgentRuns.WithLabelValues("lock_error").Inc()
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		log.Println("[NewsAgent] previous run still holds the lock, skipping")
		monitoring.AgentRuns.WithLabelValues("skipped").Inc()
		return ErrLocked
	}
	defer a.release(runID)

	items, err := a.fetchFeed(ctx)
	if err != nil {
		monitoring.AgentRuns.WithLabelValues("fetch_error").Inc()
		return fmt.Errorf("fetch feed: %w", err)
	}

	imported := 0
	for _, item := range items {
		if item.URL == "" || item.Title == "" {
			continue
		}
		if _, err := a.postRepo.FindBySourceURL(ctx, item.URL); err == nil {
			continue // already imported on an earlier run
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			monitoring.AgentRuns.WithLabelValues("db_error").Inc()
			return err
		}

		post := &models.Post{
			Title:       item.Title,
			Body:        item.Content,
			SourceURL:   item.URL,
			Summary:     a.summarize(ctx, item),
			PublishedAt: time.Now(),
		}
		if err := a.news.CreatePost(ctx, post); err != nil {
			log.Printf("[NewsAgent] failed to insert %q: %v", item.Title, err)
			continue
		}
		imported++
		if imported >= maxItemsPerRun {
			break
		}
	}

	log.Printf("[NewsAgent] run complete: %d article(s) imported", imported)
	monitoring.AgentRuns.WithLabelValues("ok").Inc()
	return nil
}

// Start runs the agent on a fixed interval until ctx is cancelled.
func (a *NewsAgent) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := a.Run(ctx); err != nil && !errors.Is(err, ErrLocked) {
					log.Printf("[NewsAgent] run failed: %v", err)
				}
			}
		}
	}()
}

func (a *NewsAgent) fetchFeed(ctx context.Context) ([]FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	var items []FeedItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return items, nil
}

func (a *NewsAgent) summarize(ctx context.Context, item FeedItem) string {
	if a.llm != nil {
		if summary, err := llm.Summarize(ctx, a.llm, item.Title, item.Content); err == nil && summary != "" {
			return summary
		} else if err != nil {
			log.Printf("[NewsAgent] summarization failed for %q, using fallback: %v", item.Title, err)
		}
	}
	return llm.Truncate(item.Content, summaryFallbackN)
}

// release drops the lock only if this run still owns it; an expired lock
// may have been re-acquired by a newer run.
func (a *NewsAgent) release(runID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if val, err := a.redis.Get(ctx, LockKey).Result(); err == nil && val == runID {
		a.redis.Del(ctx, LockKey)
	}
}
