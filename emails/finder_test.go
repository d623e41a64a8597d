package emails

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leadflow/leadflow/fetch"
)

type fallbackFunc func(ctx context.Context, url string) (string, error)

func (f fallbackFunc) FindEmail(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

func pageServer(pages map[string]string) fetch.Fetcher {
	return fetch.Func(func(_ context.Context, url string) (string, error) {
		markup, ok := pages[url]
		if !ok {
			return "", errors.New("not found")
		}

		return markup, nil
	})
}

func TestFindBestScorerAcrossPaths(t *testing.T) {
	pages := map[string]string{
		"https://bizname.com":         `<html><body><p>say hi: hello@bizname.com</p></body></html>`,
		"https://bizname.com/contact": `<html><body><p>email us at info@bizname.com</p></body></html>`,
		"https://bizname.com/about":   `<html><body><p>about us</p></body></html>`,
	}

	finder := NewFinder(pageServer(pages), nil)

	res := finder.Find(context.Background(), "https://bizname.com")

	require.True(t, res.Found)
	require.Equal(t, "info@bizname.com", res.Email)
	require.Equal(t, SourceExtractor, res.Source)
}

func TestFindTieKeepsFirstCandidate(t *testing.T) {
	pages := map[string]string{
		"https://bizname.com":         `<html><body><p>write hello@bizname.com or sales@bizname.com anytime</p></body></html>`,
		"https://bizname.com/contact": `<html><body></body></html>`,
		"https://bizname.com/about":   `<html><body></body></html>`,
	}

	finder := NewFinder(pageServer(pages), nil)

	res := finder.Find(context.Background(), "https://bizname.com")

	require.True(t, res.Found)
	require.Equal(t, "hello@bizname.com", res.Email)
}

func TestFindFetchFailureSkipsPath(t *testing.T) {
	pages := map[string]string{
		"https://bizname.com/about": `<html><body><a href="mailto:owner@bizname.com">mail</a></body></html>`,
	}

	finder := NewFinder(pageServer(pages), nil)

	res := finder.Find(context.Background(), "https://bizname.com")

	require.True(t, res.Found)
	require.Equal(t, "owner@bizname.com", res.Email)
}

func TestFindEscalatesToFallback(t *testing.T) {
	pages := map[string]string{
		"https://bizname.com":         `<html><body>nothing here</body></html>`,
		"https://bizname.com/contact": `<html><body>still nothing</body></html>`,
		"https://bizname.com/about":   `<html><body>nope</body></html>`,
	}

	fallback := fallbackFunc(func(_ context.Context, url string) (string, error) {
		require.Equal(t, "https://bizname.com", url)

		return "hidden@bizname.com", nil
	})

	finder := NewFinder(pageServer(pages), fallback)

	res := finder.Find(context.Background(), "https://bizname.com")

	require.True(t, res.Found)
	require.Equal(t, "hidden@bizname.com", res.Email)
	require.Equal(t, SourceLLM, res.Source)
}

func TestFindFallbackNotConsultedWhenHeuristicWins(t *testing.T) {
	pages := map[string]string{
		"https://bizname.com":         `<html><body><a href="mailto:info@bizname.com">mail</a></body></html>`,
		"https://bizname.com/contact": `<html><body></body></html>`,
		"https://bizname.com/about":   `<html><body></body></html>`,
	}

	fallback := fallbackFunc(func(_ context.Context, _ string) (string, error) {
		t.Fatal("fallback should not run")

		return "", nil
	})

	finder := NewFinder(pageServer(pages), fallback)

	res := finder.Find(context.Background(), "https://bizname.com")

	require.Equal(t, SourceExtractor, res.Source)
}

func TestFindFallbackPlaceholderRejected(t *testing.T) {
	fallback := fallbackFunc(func(_ context.Context, _ string) (string, error) {
		return "info@example.com", nil
	})

	finder := NewFinder(pageServer(nil), fallback)

	res := finder.Find(context.Background(), "https://bizname.com")

	require.False(t, res.Found)
	require.Empty(t, res.Email)
}

func TestFindFallbackErrorMeansNotFound(t *testing.T) {
	fallback := fallbackFunc(func(_ context.Context, _ string) (string, error) {
		return "", errors.New("agent gave up")
	})

	finder := NewFinder(pageServer(nil), fallback)

	res := finder.Find(context.Background(), "https://bizname.com")

	require.False(t, res.Found)
}

func TestFindNoFallbackConfigured(t *testing.T) {
	finder := NewFinder(pageServer(nil), nil)

	res := finder.Find(context.Background(), "https://bizname.com")

	require.False(t, res.Found)
}
