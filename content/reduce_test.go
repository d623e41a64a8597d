package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleMarkup = `<html><body>
	<script>alert("TRACKING CODE");</script>
	<nav>Home | About | Contact | Blog | Careers | Press</nav>
	<h1>Bizname delivers handcrafted espresso to busy downtown offices</h1>
	<div class="about-us">
		<p>Bizname is a family-run coffee roastery serving the South Loop since 2009, supplying offices and cafes.</p>
	</div>
	<main>
		<p>We roast in small batches and deliver within twenty-four hours of roasting, every single week.</p>
	</main>
	<footer>Copyright Bizname. Legal text that should disappear entirely.</footer>
</body></html>`

func TestReduce(t *testing.T) {
	text := Reduce(sampleMarkup)

	require.Contains(t, text, "handcrafted espresso")
	require.Contains(t, text, "family-run coffee roastery")
	require.Contains(t, text, "small batches")

	require.NotContains(t, text, "TRACKING CODE")
	require.NotContains(t, text, "Careers")
	require.NotContains(t, text, "should disappear")
}

func TestReduceDropsShortBlocks(t *testing.T) {
	markup := `<html><body>
		<h2>Menu</h2>
		<main><p>ok</p></main>
	</body></html>`

	require.Empty(t, Reduce(markup))
}

func TestReduceDeduplicates(t *testing.T) {
	block := "<p>Bizname is a family-run coffee roastery serving the South Loop since 2009, supplying offices.</p>"
	markup := `<html><body>
		<div class="about">` + block + `</div>
		<div class="about-section">` + block + `</div>
		<main>` + block + `</main>
	</body></html>`

	text := Reduce(markup)

	require.Equal(t, 1, strings.Count(text, "family-run"))
}

func TestReduceFallsBackToLongestDiv(t *testing.T) {
	markup := `<html><body>
		<div>short</div>
		<div>This considerably longer block describes what the business actually does all day long.</div>
	</body></html>`

	text := Reduce(markup)

	require.Contains(t, text, "considerably longer block")
}

func TestReduceMalformedMarkup(t *testing.T) {
	require.Empty(t, Reduce(""))
}
