package main

import (
	"fmt"
	"os"

	"github.com/wardenbench/wardenbench/pkg/ui"
)

func printUsage() {
	ui.PrintBanner()

	fmt.Fprintln(os.Stderr, ui.SectionStyle.Render("COMMANDS"))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  %s  %s\n", ui.StatValueStyle.Render("analyze    "), "Score wardens and compare a baseline against the top percentile")
	fmt.Fprintf(os.Stderr, "  %s  %s\n", ui.StatValueStyle.Render("leaderboard"), "Score wardens across contests, no baseline comparison")
	fmt.Fprintf(os.Stderr, "  %s  %s\n", ui.StatValueStyle.Render("fetch      "), "Download findings reports listed in a contest index CSV")
	fmt.Fprintf(os.Stderr, "  %s  %s\n", ui.StatValueStyle.Render("version    "), "Print version information")
	fmt.Fprintln(os.Stderr)

	fmt.Fprintln(os.Stderr, ui.SectionStyle.Render("EXAMPLES"))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "    %s\n", ui.ConfigValueStyle.Render("warden-bench fetch -index contests.csv -cache reports"))
	fmt.Fprintf(os.Stderr, "    %s\n", ui.ConfigValueStyle.Render("warden-bench analyze -input reports -baseline baseline-bot"))
	fmt.Fprintf(os.Stderr, "    %s\n", ui.ConfigValueStyle.Render("warden-bench analyze -i reports -b bot-henry -p 0.75 -f json -o out.json"))
	fmt.Fprintf(os.Stderr, "    %s\n", ui.ConfigValueStyle.Render("warden-bench leaderboard -input report.md -exclude-zero -top 25"))
	fmt.Fprintln(os.Stderr)

	fmt.Fprintln(os.Stderr, ui.SectionStyle.Render("ANALYZE"))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "  Parses contest findings reports, groups duplicate submissions,")
	fmt.Fprintln(os.Stderr, "  scores every warden, selects the top percentile and buckets each")
	fmt.Fprintln(os.Stderr, "  issue by who found it: the baseline, the top wardens, both, or")
	fmt.Fprintln(os.Stderr, "  neither.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  %s\n", ui.SubtitleStyle.Render("Options:"))
	fmt.Fprintln(os.Stderr, "    -input, -i <path>       Report file or directory of report markdown")
	fmt.Fprintln(os.Stderr, "    -index <file>           Contest index CSV, downloads reports instead")
	fmt.Fprintln(os.Stderr, "    -cache <dir>            Reuse downloaded reports from this directory")
	fmt.Fprintln(os.Stderr, "    -token <token>          GitHub token for private findings repositories")
	fmt.Fprintln(os.Stderr, "    -rate <n>               Downloads per second with -index (default: 2)")
	fmt.Fprintln(os.Stderr, "    -baseline, -b <handle>  Baseline submitter handle (required)")
	fmt.Fprintln(os.Stderr, "    -percentile, -p <val>   Percentile cut in (0,1] (default: 0.90)")
	fmt.Fprintln(os.Stderr, "    -weight-high <pts>      Points for a sole high finding (default: 10)")
	fmt.Fprintln(os.Stderr, "    -weight-medium <pts>    Points for a sole medium finding (default: 3)")
	fmt.Fprintln(os.Stderr, "    -exclude-zero           Drop zero-score wardens before ranking")
	fmt.Fprintln(os.Stderr, "    -overrides <file>       YAML file with per-contest handle corrections")
	fmt.Fprintln(os.Stderr, "    -format, -f <fmt>       console, json, csv, markdown, template, pdf")
	fmt.Fprintln(os.Stderr, "    -template <name>        Template file or built-in (csv, summary)")
	fmt.Fprintln(os.Stderr, "    -output, -o <file>      Output file (default: stdout)")
	fmt.Fprintln(os.Stderr, "    -top <n>                Limit console leaderboard rows")
	fmt.Fprintln(os.Stderr)

	fmt.Fprintln(os.Stderr, ui.SectionStyle.Render("FETCH"))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "  Downloads report.md from each findings repository in the index.")
	fmt.Fprintln(os.Stderr, "  Private repositories need a token from GITHUB_TOKEN, GITHUB_KEY")
	fmt.Fprintln(os.Stderr, "  or -token.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  %s\n", ui.SubtitleStyle.Render("Options:"))
	fmt.Fprintln(os.Stderr, "    -index, -i <file>     Contest index CSV with a findingsRepo column")
	fmt.Fprintln(os.Stderr, "    -cache <dir>          Download directory (default: reports)")
	fmt.Fprintln(os.Stderr, "    -token <token>        GitHub token for private findings repositories")
	fmt.Fprintln(os.Stderr, "    -rate <n>             Downloads per second (default: 2)")
	fmt.Fprintln(os.Stderr, "    -concurrency, -c <n>  Parallel downloads (default: 4)")
	fmt.Fprintln(os.Stderr, "    -proxy, -x <url>      HTTP/SOCKS5 proxy")
	fmt.Fprintln(os.Stderr, "    -timeout <sec>        HTTP timeout in seconds (default: 10)")
	fmt.Fprintln(os.Stderr)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze", "compare", "benchmark":
		runAnalyze()
	case "leaderboard", "score", "rank":
		runLeaderboard()
	case "fetch", "download":
		runFetch()
	case "-h", "--help", "help":
		printUsage()
		os.Exit(0)
	case "-v", "--version", "version":
		ui.PrintMiniBanner()
		os.Exit(0)
	default:
		ui.PrintError("unknown command %q", os.Args[1])
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}
