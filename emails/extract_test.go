package emails

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePageMailtoFirst(t *testing.T) {
	markup := `<html><body>
		<p>Say hello at sales@bizname.com any time.</p>
		<a href="mailto:INFO@BizName.com?subject=Hi">Email us</a>
	</body></html>`

	page := ParsePage(markup)

	require.Equal(t, []string{"info@bizname.com", "sales@bizname.com"}, page.Candidates)
}

func TestParsePageDeduplicates(t *testing.T) {
	markup := `<html><body>
		<a href="mailto:info@bizname.com">mail</a>
		<a href="MAILTO:info@bizname.com">mail again</a>
		<p>info@bizname.com</p>
	</body></html>`

	page := ParsePage(markup)

	require.Equal(t, []string{"info@bizname.com"}, page.Candidates)
}

func TestParsePageVisibleText(t *testing.T) {
	markup := `<html><body>
		<script>var hidden = "SECRET";</script>
		<p>Welcome   to
		Bizname</p>
		<footer>Reach us: info@bizname.com</footer>
	</body></html>`

	page := ParsePage(markup)

	require.NotContains(t, page.VisibleText, "secret")
	require.Contains(t, page.VisibleText, "welcome to bizname")
	require.Equal(t, "reach us: info@bizname.com", page.FooterText)
}

func TestParsePageMalformed(t *testing.T) {
	page := ParsePage("<<<not html")

	require.Empty(t, page.Candidates)
}
