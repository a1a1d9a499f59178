package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/uxbench/uxbench/internal/benchmark"
	"github.com/uxbench/uxbench/internal/browser"
	"github.com/uxbench/uxbench/internal/goal"
	"github.com/uxbench/uxbench/internal/reporting"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

func main() {
	godotenv.Load()

	goalText := flag.String("goal", "", "Visitor goal, e.g. \"find pricing information\"")
	sitesFlag := flag.String("sites", "", "Comma-separated site URLs to benchmark")
	persona := flag.String("persona", "first-time visitor", "Visitor persona")
	maxSteps := flag.Int("max-steps", 30, "Maximum actions per site")
	maxTime := flag.Duration("max-time", 180*time.Second, "Time budget per site")
	concurrency := flag.Int("concurrency", 3, "Sites visited in parallel")
	headless := flag.Bool("headless", true, "Run the browser headless")
	outputDir := flag.String("output", "", "Output directory (default: /tmp/uxbench-<timestamp>)")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	sites := parseSites(*sitesFlag, flag.Args())
	if *goalText == "" || len(sites) == 0 {
		red.Println("A goal and at least one site are required")
		fmt.Println("   uxbench -goal \"find pricing information\" -sites https://a.com,https://b.com")
		os.Exit(1)
	}

	var logger *zap.Logger
	if *verbose {
		logger, _ = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"/dev/null"}
		logger, _ = cfg.Build()
	}
	defer logger.Sync()

	printBanner()

	outDir := *outputDir
	if outDir == "" {
		outDir = fmt.Sprintf("/tmp/uxbench-%d", time.Now().Unix())
	}
	os.MkdirAll(outDir, 0755)

	fmt.Printf("🎯 Goal:    %s\n", *goalText)
	fmt.Printf("👤 Persona: %s\n", *persona)
	fmt.Printf("📁 Output:  %s\n", outDir)
	fmt.Println()
	for _, s := range sites {
		dim.Printf("   • %s\n", s.URL)
	}

	browserCfg := browser.DefaultConfig()
	browserCfg.Headless = *headless

	launcher, err := browser.NewLauncher(browserCfg, logger)
	if err != nil {
		red.Printf("❌ Failed to launch browser: %v\n", err)
		os.Exit(1)
	}
	defer launcher.Close()

	shots := &fileStore{dir: filepath.Join(outDir, "screenshots")}
	interp := goal.NewInterpreter(goal.DefaultThresholds())
	orch := benchmark.New(launcher, interp, shots, logger)

	input := benchmark.Input{
		Sites:          sites,
		Goal:           *goalText,
		Persona:        *persona,
		MaxSteps:       *maxSteps,
		MaxTime:        *maxTime,
		MaxConcurrency: *concurrency,
		Headless:       *headless,
	}

	bold.Println("\n━━━ Simulating visitor journeys ━━━")
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("   Visiting sites..."),
		progressbar.OptionSpinnerType(14),
	)
	done := make(chan bool)
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				time.Sleep(100 * time.Millisecond)
				bar.Add(1)
			}
		}
	}()

	result, err := orch.Run(context.Background(), input)
	close(done)
	bar.Finish()
	fmt.Println()

	if err != nil {
		red.Printf("❌ Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	printResults(result)

	reportPath, err := writeReport(result, outDir, logger)
	if err != nil {
		yellow.Printf("⚠ Report generation failed: %v\n", err)
	} else {
		fmt.Println()
		green.Printf("📊 Report: %s\n", reportPath)
	}
}

func parseSites(flagValue string, args []string) []benchmark.Site {
	raw := strings.Split(flagValue, ",")
	raw = append(raw, args...)

	var sites []benchmark.Site
	for _, r := range raw {
		u := strings.TrimSpace(r)
		if u == "" {
			continue
		}
		if !strings.Contains(u, "://") {
			u = "https://" + u
		}
		sites = append(sites, benchmark.Site{URL: u})
	}
	return sites
}

func printBanner() {
	cyan.Println(`
╔══════════════════════════════════════════════════════════╗
║   ██╗   ██╗██╗  ██╗██████╗ ███████╗███╗   ██╗ ██████╗██╗  ██╗
║   ██║   ██║╚██╗██╔╝██╔══██╗██╔════╝████╗  ██║██╔════╝██║  ██║
║   ██║   ██║ ╚███╔╝ ██████╔╝█████╗  ██╔██╗ ██║██║     ███████║
║   ██║   ██║ ██╔██╗ ██╔══██╗██╔══╝  ██║╚██╗██║██║     ██╔══██║
║   ╚██████╔╝██╔╝ ██╗██████╔╝███████╗██║ ╚████║╚██████╗██║  ██║
║    ╚═════╝ ╚═╝  ╚═╝╚═════╝ ╚══════╝╚═╝  ╚═══╝ ╚═════╝╚═╝  ╚═╝
║
║          Goal-Directed Website Usability Benchmark
╚══════════════════════════════════════════════════════════╝`)
}

func printResults(result *benchmark.Result) {
	cyan.Println("┌──────────────────────────────────────────────────────┐")
	cyan.Println("│                      RANKING                         │")
	cyan.Println("├──────────────────────────────────────────────────────┤")

	for _, ranked := range result.Ranking {
		site := findSite(result, ranked.Site.URL)

		marker := green.Sprint("✓")
		if site == nil || !site.GoalAchieved {
			marker = red.Sprint("✗")
		}
		fmt.Printf("│ %d. %s %-30s %6.1f pts       │\n", ranked.Rank, marker, ranked.Site.DisplayName(), ranked.Score)

		for _, s := range ranked.Strengths {
			dim.Printf("│      + %-45s │\n", s)
		}
		for _, w := range ranked.Weaknesses {
			dim.Printf("│      - %-45s │\n", w)
		}
	}
	cyan.Println("└──────────────────────────────────────────────────────┘")

	for _, site := range result.Sites {
		fmt.Println()
		if site.GoalAchieved {
			green.Printf("✓ %s reached the goal", site.Site.DisplayName())
			fmt.Printf(" in %.1fs and %d steps\n", site.Duration.Seconds(), site.Steps)
		} else {
			red.Printf("✗ %s", site.Site.DisplayName())
			fmt.Printf(" — %s (risk %.0f)\n", site.AbandonReason, site.Risk)
		}

		if len(site.FrictionPoints) > 0 {
			sorted := append([]string(nil), site.FrictionPoints...)
			sort.Strings(sorted)
			for _, f := range sorted {
				yellow.Printf("   ⚠ %s\n", f)
			}
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Println()
		cyan.Println("💡 Recommendations:")
		for _, rec := range result.Recommendations {
			fmt.Printf("   • %s: %s\n", rec.Site, rec.Suggestion)
			if rec.Reference != "" {
				dim.Printf("     (%s)\n", rec.Reference)
			}
		}
	}
}

func findSite(result *benchmark.Result, url string) *benchmark.SiteResult {
	for i := range result.Sites {
		if result.Sites[i].Site.URL == url {
			return &result.Sites[i]
		}
	}
	return nil
}

func writeReport(result *benchmark.Result, outDir string, logger *zap.Logger) (string, error) {
	gen, err := reporting.NewGenerator(nil, logger)
	if err != nil {
		return "", err
	}

	html, err := gen.RenderHTML(result)
	if err != nil {
		return "", err
	}

	path := filepath.Join(outDir, "report.html")
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", err
	}

	jsonData, err := gen.RenderJSON(result)
	if err == nil {
		os.WriteFile(filepath.Join(outDir, "report.json"), jsonData, 0644)
	}

	return path, nil
}

// fileStore persists screenshots to the local output directory
type fileStore struct {
	dir string
}

func (f *fileStore) SaveScreenshot(ctx context.Context, key string, data []byte) (string, error) {
	path := filepath.Join(f.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
