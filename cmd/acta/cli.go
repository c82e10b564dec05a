package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/hpungsan/acta/internal/acta"
	"github.com/hpungsan/acta/internal/config"
	"github.com/hpungsan/acta/internal/errors"
	"github.com/hpungsan/acta/internal/mcp"
	"github.com/hpungsan/acta/internal/pipeline"
	"github.com/hpungsan/acta/internal/render"
	"github.com/hpungsan/acta/internal/transcript"
	"github.com/hpungsan/acta/internal/web"
)

// maxInputBytes caps documents and transcripts read from files or stdin.
const maxInputBytes = 10 << 20

// newCLIApp creates the CLI application with all commands.
func newCLIApp(rt *runtime) *cli.App {
	app := &cli.App{
		Name:    "acta",
		Usage:   "Meeting minutes for owners' associations",
		Version: Version,
		Commands: []*cli.Command{
			templateCmd(),
			validateCmd(rt),
			mapCmd(rt),
			previewCmd(rt),
			renderCmd(rt),
			generateCmd(rt),
			transcribeCmd(rt),
			summarizeCmd(rt),
			serveCmd(rt),
			mcpCmd(rt),
			authCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func sourceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "source",
		Aliases: []string{"s"},
		Value:   string(pipeline.SourceExtracted),
		Usage:   "Document shape: extracted|premapped",
	}
}

// templateCmd creates the template command.
func templateCmd() *cli.Command {
	return &cli.Command{
		Name:  "template",
		Usage: "Print the empty acta template the extractor fills in",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintln(c.App.Writer, acta.Template)
			return err
		},
	}
}

// validateCmd creates the validate command.
func validateCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate and normalize an extracted acta (file or stdin)",
		ArgsUsage: "[file]",
		Action: func(c *cli.Context) error {
			data, err := readInput(c)
			if err != nil {
				return outputError(err)
			}
			var v any
			if err := json.Unmarshal(data, &v); err != nil {
				return outputError(errors.NewInvalidRequest("input is not valid JSON"))
			}
			a, err := rt.pipeline.Validate(c.Context, v)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, a)
		},
	}
}

// mapCmd creates the map command.
func mapCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "map",
		Usage:     "Map an acta to the document record",
		ArgsUsage: "[file]",
		Flags:     []cli.Flag{sourceFlag()},
		Action: func(c *cli.Context) error {
			in, err := documentInput(c)
			if err != nil {
				return outputError(err)
			}
			f, err := rt.pipeline.Format(c.Context, in)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, f)
		},
	}
}

// previewCmd creates the preview command.
func previewCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Project an acta into the printable view",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			sourceFlag(),
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format: json|md|html"},
		},
		Action: func(c *cli.Context) error {
			format := c.String("format")
			if format != "json" && format != "md" && format != "html" {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown format %q: use json, md or html", format)))
			}
			in, err := documentInput(c)
			if err != nil {
				return outputError(err)
			}

			if format == "html" {
				doc, err := rt.pipeline.HTML(c.Context, in)
				if err != nil {
					return outputError(err)
				}
				_, err = io.WriteString(c.App.Writer, doc)
				return err
			}

			vm, err := rt.pipeline.Preview(c.Context, in)
			if err != nil {
				return outputError(err)
			}
			if format == "md" {
				_, err = io.WriteString(c.App.Writer, render.Markdown(vm))
				return err
			}
			return outputJSON(c, vm)
		},
	}
}

// renderCmd creates the render command.
func renderCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render an acta to PDF",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			sourceFlag(),
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "PDF path (default: ./acta-<id>.pdf)"},
		},
		Action: func(c *cli.Context) error {
			path, err := outputPath(c.String("output"))
			if err != nil {
				return outputError(err)
			}
			in, err := documentInput(c)
			if err != nil {
				return outputError(err)
			}
			pdf, err := rt.pipeline.Render(c.Context, in)
			if err != nil {
				return outputError(err)
			}
			return writePDF(c, path, pdf)
		},
	}
}

// generateCmd creates the generate command.
func generateCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Extract an acta from a transcript and render it to PDF",
		ArgsUsage: "[transcript.txt|.vtt|.docx]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Additional notes appended to the transcript"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "PDF path (default: ./acta-<id>.pdf)"},
			&cli.StringFlag{Name: "save-acta", Usage: "Also write the extracted acta JSON to this path"},
		},
		Action: func(c *cli.Context) error {
			path, err := outputPath(c.String("output"))
			if err != nil {
				return outputError(err)
			}

			var fileText string
			if name := c.Args().First(); name != "" && name != "-" {
				data, err := readFile(name)
				if err != nil {
					return outputError(err)
				}
				if fileText, err = transcript.Read(name, data); err != nil {
					return outputError(err)
				}
			} else if c.String("text") == "" && stdinHasData() {
				if fileText, err = readStdin(maxInputBytes); err != nil {
					return outputError(err)
				}
			}

			text := transcript.Merge(fileText, c.String("text"))
			if strings.TrimSpace(text) == "" {
				return outputError(errors.NewInvalidRequest("No transcription provided"))
			}

			pdf, a, err := rt.pipeline.Generate(c.Context, text)
			if a != nil && c.String("save-acta") != "" {
				if saveErr := saveJSON(c.String("save-acta"), a); saveErr != nil {
					return outputError(errors.NewInternal(saveErr))
				}
			}
			if err != nil {
				return outputError(err)
			}
			return writePDF(c, path, pdf)
		},
	}
}

// transcribeCmd creates the transcribe command.
func transcribeCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "transcribe",
		Usage:     "Transcribe an audio recording",
		ArgsUsage: "<audio>",
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return outputError(errors.NewInvalidRequest("No audio file provided"))
			}
			file, err := os.Open(name)
			if err != nil {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("cannot open %s", name)))
			}
			defer file.Close()

			info, err := file.Stat()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			mimeType := mime.TypeByExtension(filepath.Ext(name))
			if err := transcript.CheckAudio(name, mimeType, info.Size(), rt.cfg.MaxAudioBytes); err != nil {
				return outputError(err)
			}

			text, err := rt.pipeline.Transcribe(c.Context, file, filepath.Base(name))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, map[string]any{
				"text": text,
				"metadata": map[string]any{
					"filename": filepath.Base(name),
					"size":     info.Size(),
				},
			})
		},
	}
}

// summarizeCmd creates the summarize command.
func summarizeCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "summarize",
		Usage:     "Summarize free text (file or stdin)",
		ArgsUsage: "[file]",
		Action: func(c *cli.Context) error {
			data, err := readInput(c)
			if err != nil {
				return outputError(err)
			}
			summary, err := rt.pipeline.Summarize(c.Context, string(data))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, map[string]string{"summary": summary})
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web interface and HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Address to bind (overrides config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("bind") {
				rt.cfg.Server.Bind = c.String("bind")
			}
			if c.IsSet("port") {
				port := c.Int("port")
				if port < 1 || port > 65535 {
					return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port %d", port)))
				}
				rt.cfg.Server.Port = port
			}

			srv, err := web.NewServer(rt.pipeline, web.Options{
				Addr:          rt.cfg.Addr(),
				Version:       Version,
				MaxAudioBytes: rt.cfg.MaxAudioBytes,
				Logger:        rt.log,
				Metrics:       rt.metrics,
				Gatherer:      rt.registry,
			})
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv, rt.log)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			return mcp.Run(rt.pipeline, rt.cfg, Version, rt.log)
		},
	}
}

// authCmd creates the auth command group.
func authCmd() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Groq API key stored in the system keyring",
		Subcommands: []*cli.Command{
			{
				Name:      "set-key",
				Usage:     "Store the API key (argument or stdin)",
				ArgsUsage: "[key]",
				Action: func(c *cli.Context) error {
					key := c.Args().First()
					if key == "" {
						var err error
						if key, err = readAPIKey(c); err != nil {
							return outputError(errors.NewInvalidRequest(err.Error()))
						}
					}
					if config.NormalizeAPIKey(key) == "" {
						return outputError(errors.NewInvalidRequest("API key is required"))
					}
					if err := config.StoreAPIKey(key); err != nil {
						return keyringError(err)
					}
					return outputJSON(c, map[string]any{"stored": true})
				},
			},
			{
				Name:  "clear-key",
				Usage: "Remove the stored API key",
				Action: func(c *cli.Context) error {
					if err := config.ClearAPIKey(); err != nil {
						return keyringError(err)
					}
					return outputJSON(c, map[string]any{"cleared": true})
				},
			},
		},
	}
}

// Helper functions

// outputJSON marshals result to the app writer as JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI. Validation issues are listed one per line.
func outputError(err error) error {
	var aErr *errors.ActaError
	if !stderrors.As(err, &aErr) {
		return cli.Exit(err.Error(), 1)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", aErr.Code, aErr.Message)
	if issues, ok := aErr.Details["issues"].([]errors.Issue); ok {
		for _, is := range issues {
			fmt.Fprintf(&b, "\n  %s: expected %s", is.Path, is.Expected)
		}
	}
	return cli.Exit(b.String(), 1)
}

func keyringError(err error) error {
	if errKeyringUnavailable(err) {
		return cli.Exit(fmt.Sprintf("%v\nSet GROQ_API_KEY in the environment instead.", err), 1)
	}
	return outputError(err)
}

// documentInput reads the document named by the first argument (or stdin)
// as the variant chosen with --source.
func documentInput(c *cli.Context) (pipeline.Input, error) {
	source, err := pipeline.ParseSource(c.String("source"))
	if err != nil {
		return nil, err
	}
	data, err := readInput(c)
	if err != nil {
		return nil, err
	}
	return pipeline.DecodeInput(source, data)
}

// readInput reads the file given as the first argument, or stdin when the
// argument is absent or "-".
func readInput(c *cli.Context) ([]byte, error) {
	if name := c.Args().First(); name != "" && name != "-" {
		return readFile(name)
	}
	if !stdinHasData() {
		return nil, errors.NewInvalidRequest("input must be a file argument or piped via stdin")
	}
	text, err := readStdin(maxInputBytes)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	return []byte(text), nil
}

func readFile(name string) ([]byte, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot read %s", name))
	}
	if info.Size() > maxInputBytes {
		return nil, errors.NewPayloadTooLarge(maxInputBytes, info.Size())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot read %s", name))
	}
	return data, nil
}

// outputPath defaults to ./acta-<ulid>.pdf and insists on a .pdf extension.
func outputPath(path string) (string, error) {
	if path == "" {
		return "acta-" + ulid.Make().String() + ".pdf", nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", errors.NewInvalidRequest("output path must end in .pdf")
	}
	return path, nil
}

func writePDF(c *cli.Context, path string, pdf []byte) error {
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return outputError(errors.NewRenderFailed("could not write PDF", err))
	}
	return outputJSON(c, mcp.RenderOutput{Path: path, Bytes: len(pdf)})
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// readAPIKey prompts for the key with echo disabled on a terminal, or reads
// it from piped stdin.
func readAPIKey(c *cli.Context) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readStdin(4096)
	}
	fmt.Fprint(c.App.ErrWriter, "Groq API key: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(c.App.ErrWriter)
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads at most limit bytes from stdin.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("input exceeds %d bytes", limit)
	}
	return strings.TrimSpace(string(data)), nil
}
