package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/karupanerura/calculator/internal/batch"
	"github.com/karupanerura/calculator/internal/expression"
	"github.com/karupanerura/calculator/internal/format"
	"github.com/karupanerura/calculator/internal/server"
	"github.com/mattn/go-isatty"
)

type Option struct {
	File      string `short:"f" long:"file" description:"[OPTIONAL] Batch file of expressions (.yaml, .yml or .json)" required:"false"`
	Fold      string `long:"fold" description:"[OPTIONAL] Fold the operands given as arguments with an operation" choice:"add" choice:"sub" choice:"mul" choice:"div" choice:"pow" required:"false"`
	Listen    string `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve the HTTP API" required:"false"`
	Precision int    `long:"precision" description:"Maximum fraction digits of results" default:"6"`
	Separator string `long:"separator" description:"Digit grouping of results" choice:"none" choice:"comma" choice:"space" default:"none"`
	JSON      bool   `long:"json" description:"Print results as JSON"`
	RPN       bool   `long:"rpn" description:"Print the postfix form of each expression"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Usage = "[OPTIONS] [--] [EXPRESSION... | OPERAND...]"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		} else {
			parser.WriteHelp(stdout)
			return 1
		}
	}
	if opt.Listen != "" && (opt.File != "" || opt.Fold != "" || len(rest) != 0) {
		parser.WriteHelp(stdout)
		return 1
	}
	if opt.File != "" && (opt.Fold != "" || len(rest) != 0) {
		parser.WriteHelp(stdout)
		return 1
	}

	formatOptions := format.Options{
		Precision: opt.Precision,
		Separator: format.Separator(opt.Separator),
	}

	// server mode
	if opt.Listen != "" {
		if err := serve(opt.Listen, formatOptions); err != nil {
			log.Printf("failed to serve: %v", err)
			return 1
		}
		return 0
	}

	p := &printer{opt: opt, formatOptions: formatOptions, stdout: stdout, stderr: stderr}

	var b batch.Batch
	switch {
	case opt.Fold != "":
		operands, err := parseOperands(rest)
		if err != nil {
			log.Printf("failed to parse operands: %v", err)
			return 1
		}
		b = batch.Batch{{Fold: opt.Fold, Operands: operands}}

	case opt.File != "":
		b, err = loadBatch(opt.File)
		if err != nil {
			log.Printf("failed to load batch: %v", err)
			return 1
		}

	case len(rest) != 0:
		b = batch.FromExpressions(rest)

	default:
		return p.printStream(stdin)
	}

	results, err := b.Run(context.Background())
	if err != nil {
		log.Printf("failed to run batch: %v", err)
		return 1
	}
	return p.printResults(results)
}

// parseOperands accepts operands separated by spaces or commas, as in "1,2 3".
func parseOperands(args []string) ([]float64, error) {
	var operands []float64
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("strconv.ParseFloat(%q): %w", field, err)
			}
			operands = append(operands, v)
		}
	}
	return operands, nil
}

func loadBatch(filePath string) (batch.Batch, error) {
	var parseBatch func(io.Reader) (batch.Batch, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseBatch = batch.ParseBatchJSON
	case ".yaml", ".yml":
		parseBatch = batch.ParseBatchYAML
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	b, err := parseBatch(f)
	if err != nil {
		return nil, fmt.Errorf("batch.ParseBatch: %w", err)
	}
	return b, nil
}

func serve(listen string, formatOptions format.Options) error {
	srv := http.Server{
		Handler:           server.NewHTTPHandler(formatOptions),
		Addr:              listen,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

type printer struct {
	opt           Option
	formatOptions format.Options
	stdout        io.Writer
	stderr        io.Writer
}

// printStream evaluates stdin line by line, skipping blank lines.
func (p *printer) printStream(r io.Reader) int {
	status := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		result := (&batch.Entry{Expression: line}).Evaluate()
		if p.opt.JSON {
			if err := dumpJSON(p.stdout, result.Record(p.formatOptions)); err != nil {
				log.Printf("failed to dump result as JSON: %v", err)
			}
		} else {
			p.printText(result)
		}
		if result.Err != nil {
			status = 1
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("failed to read stdin: %v", err)
		return 1
	}
	return status
}

func (p *printer) printResults(results []*batch.Result) int {
	status := 0
	for _, result := range results {
		if result.Err != nil {
			status = 1
		}
	}

	if p.opt.JSON {
		records := make([]*batch.Record, len(results))
		for i, result := range results {
			records[i] = result.Record(p.formatOptions)
		}
		if err := dumpJSON(p.stdout, records); err != nil {
			log.Printf("failed to dump results as JSON: %v", err)
			return 1
		}
		return status
	}

	for _, result := range results {
		p.printText(result)
	}
	return status
}

func (p *printer) printText(result *batch.Result) {
	var prefix string
	if result.Entry.Name != "" {
		prefix = result.Entry.Name + ": "
	}

	if result.Err != nil {
		label := result.Entry.Name
		if label == "" {
			label = describeEntry(result.Entry)
		}
		fmt.Fprintf(p.stderr, "%s: %s\n", label, expression.Message(result.Err))
		return
	}

	if p.opt.RPN && result.RPN != "" {
		fmt.Fprintf(p.stdout, "%s%s = %s\n", prefix, result.RPN, p.formatOptions.Format(result.Value))
		return
	}
	fmt.Fprintf(p.stdout, "%s%s\n", prefix, p.formatOptions.Format(result.Value))
}

func describeEntry(e *batch.Entry) string {
	if !e.IsFold() {
		return strings.TrimSpace(e.Expression)
	}

	operands := make([]string, len(e.Operands))
	for i, v := range e.Operands {
		operands[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return e.Fold + " " + strings.Join(operands, " ")
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) {
			opts = append(opts, json.Colorize(json.DefaultColorScheme))
		}
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
