package enrich

import (
	"context"
	"fmt"

	"github.com/leadflow/leadflow/llm"
)

const outreachPromptTemplate = `You are a top-tier sales copywriter for **Sonic Wave Lounge**, a premium wellness studio in South Loop, Chicago.
Your goal is to **craft a short, persuasive cold outreach email** to the business **%s**, based on their summary and challenges.

---
**Context for Personalization**
Here is what we know about the business:
Business Summary:
%s

Pain Points:
%s

---
**Sonic Wave Lounge Offering**
We help busy teams reduce stress, prevent burnout, and increase clarity in just minutes using **Shiftwave Therapy** - a zero-gravity chair experience that combines guided breathwork, biofeedback, and vibrational stimulation to reset the nervous system.

- Fast, drug-free relief from stress and screen fatigue
- Enhances recovery, focus, and emotional regulation
- Used by high-stress professionals and wellness-forward companies
- On-site or in-studio, with a **free 10-minute trial** for new partners

---
**Email Writing Instructions**
- Start with a **hook** that acknowledges the business or team's likely challenge
- Tie one or two pain points to **Shiftwave's specific benefits**
- Clearly explain the **offer** and how it helps *them*
- Include **light social proof** (e.g., "used by teams like yours" or "already helping local businesses")
- End with a **concise CTA** (e.g., book a call, try a demo)
- Keep tone friendly, clear, and confident (not too salesy)
- Length: 4 short paragraphs max
- Respond only with the email body (no greeting or signature)`

// OutreachPrompt renders the cold-outreach drafting prompt.
func OutreachPrompt(summary, painPoints, businessName string) string {
	return fmt.Sprintf(outreachPromptTemplate, businessName, summary, painPoints)
}

// Draft produces the body-only outreach message for one business. The
// caller must ensure summary and painPoints are both non-empty.
func Draft(ctx context.Context, completer llm.Completer, summary, painPoints, businessName string) (string, error) {
	return completer.Complete(ctx, OutreachPrompt(summary, painPoints, businessName))
}
