package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	barWidth      = 20
)

// Progress prints the crawl status lines: page percentage, download
// counts, the retry queue and the saving pass
type Progress struct {
	mu        sync.Mutex
	startTime time.Time
	phase     string
}

// NewProgress creates a progress printer
func NewProgress() *Progress {
	return &Progress{startTime: time.Now()}
}

// Bar renders a fixed-width bar for done out of total
func Bar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = done * barWidth / total
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, barWidth-filled)
}

// Percent truncates done/total to two decimals, 0 when total is 0
func Percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done*10000/total) / 100
}

func (p *Progress) enter(phase string) {
	if p.phase != phase {
		p.phase = phase
		printf("\n%s\n", Magenta("["+strings.ToUpper(phase)+"]"))
	}
}

// Page reports that listing page n of total is being scraped
func (p *Progress) Page(n, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.enter("scraping")
	printf("scraping pages : %d%%\n", int(Percent(n, total)))
}

// PageFailed reports a listing page that could not be fetched
func (p *Progress) PageFailed(n int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	PrintError(fmt.Sprintf("Crawling failed on page %d", n), err)
}

// Downloaded reports processed players out of total
func (p *Progress) Downloaded(processed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.enter("downloading")
	printf("[%s] %.2f%%, %d out of %d\n", Bar(processed, total), Percent(processed, total), processed, total)
}

// RetriesLeft reports the length of the failed-download queue
func (p *Progress) RetriesLeft(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.enter("retrying")
	printf("failed downloads left: %s\n", Yellow(fmt.Sprintf("%d", n)))
}

// Fixed reports a queued download that succeeded on retry
func (p *Progress) Fixed(url string) {
	printf("%s %s\n", Green("FIXED failed download of"), url)
}

// Unavailable reports a queued download given up after the retry ceiling
func (p *Progress) Unavailable(url string) {
	printf("%s\n", Red(fmt.Sprintf("image %s is unavailable", url)))
}

// Saving reports finalization progress
func (p *Progress) Saving(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.enter("saving")
	printf("Saving %.2f%%\n", Percent(done, total))
}

// Finished prints the closing line of a run
func (p *Progress) Finished(unavailable int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	printf("\n%s Finished with %d 404s in %s\n", Green("✓"), unavailable, FormatDuration(time.Since(p.startTime)))
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
