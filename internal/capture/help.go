package capture

import (
	"fmt"

	"xplore/internal/classifier"
	"xplore/internal/policy"
)

// HelpText explains an invalid preview and what to try next.
func HelpText(verdict policy.Verdict, best *classifier.Prediction, p policy.Confidence) string {
	if best == nil {
		return "We could not see a landmark in this photo. Frame the whole monument, avoid strong backlight and try again."
	}
	pct := int(best.Confidence*100 + 0.5)
	switch verdict {
	case policy.VerdictRejected:
		return fmt.Sprintf("This looks a little like %s, but we are only %d%% sure. Move closer and keep the landmark in the center of the frame.", best.Class, pct)
	case policy.VerdictRecognized:
		return fmt.Sprintf("This looks like %s (%d%% sure). We need at least %d%% to add it to your album: retake the photo in better light or from the front.", best.Class, pct, int(p.Accept*100+0.5))
	default:
		return fmt.Sprintf("%s recognized with %d%% confidence.", best.Class, pct)
	}
}
