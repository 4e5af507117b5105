package interact

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/esimov/interact/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently replayed scenarios.
const maxWorkers = 20

// ScenarioExtensions are the file extensions considered when replaying a directory.
var ScenarioExtensions = []string{".yaml", ".yml"}

// Ops describes a replay run.
type Ops struct {
	// Src is a scenario file, a directory of scenarios, an URL or PipeName for stdin.
	Src      string
	PipeName string
	// OverlayDir receives one image per replayed frame when not empty.
	OverlayDir    string
	OverlayFormat string
	OverlayScale  float64
	Workers       int
	// Tables prints the snapshot table of every frame.
	Tables bool
	Color  bool
}

// Runner replays scenarios through a fresh Context each.
type Runner struct {
	Config  Config
	Overlay *Overlay
	Spinner *utils.Spinner
	Stdout  io.Writer
	Stderr  io.Writer
}

// result holds the outcome of a single scenario replay.
type result struct {
	path   string
	output []byte
	frames int
	err    error
}

// Execute replays the scenarios designated by op. When the source is a
// directory the scenarios are replayed concurrently. The returned error
// reports the scenarios that failed.
func (r *Runner) Execute(op *Ops) error {
	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
	if op.OverlayDir != "" {
		if err := os.MkdirAll(op.OverlayDir, 0755); err != nil {
			return fmt.Errorf("unable to create the overlay directory: %w", err)
		}
	}

	now := time.Now()
	defer func() {
		fmt.Fprintf(r.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	}()

	// Check if source path is an URL.
	if utils.IsValidUrl(op.Src) {
		f, err := utils.Download(op.Src)
		if err != nil {
			return err
		}
		defer os.Remove(f.Name())
		defer f.Close()

		ctype, err := utils.DetectContentType(f.Name())
		if err != nil {
			return err
		}
		if !strings.HasPrefix(ctype, "text/") {
			return fmt.Errorf("the downloaded file is not a scenario: %s", ctype)
		}

		res := r.replay(op, op.Src, f)
		return r.printStatus(res)
	}

	if op.Src == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("`-` should be used with a pipe for stdin")
		}
		res := r.replay(op, "stdin", os.Stdin)
		return r.printStatus(res)
	}

	fs, err := os.Stat(op.Src)
	if err != nil {
		return fmt.Errorf("failed to load the scenario: %w", err)
	}

	if !fs.IsDir() {
		res := r.replayFile(op, op.Src)
		return r.printStatus(res)
	}

	// Limit the concurrently running workers to maxWorkers.
	if op.Workers <= 0 || op.Workers > maxWorkers {
		op.Workers = runtime.NumCPU()
	}

	// Replay the scenario files of the directory concurrently.
	var wg sync.WaitGroup
	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, op.Src, ScenarioExtensions)

	wg.Add(op.Workers)
	for i := 0; i < op.Workers; i++ {
		go func() {
			defer wg.Done()
			r.consumer(op, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var failed []string
	for res := range ch {
		if err := r.printStatus(res); err != nil {
			failed = append(failed, res.path)
		}
	}
	if err := <-errc; err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d scenario(s) failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

// consumer reads the path names from the paths channel and replays each scenario.
func (r *Runner) consumer(op *Ops, res chan<- result, done <-chan struct{}, paths <-chan string) {
	for src := range paths {
		select {
		case <-done:
			return
		case res <- r.replayFile(op, src):
		}
	}
}

func (r *Runner) replayFile(op *Ops, path string) result {
	f, err := os.Open(path)
	if err != nil {
		return result{path: path, err: fmt.Errorf("unable to open the scenario file: %w", err)}
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("could not close the opened file: %v", err)
		}
	}()
	return r.replay(op, path, f)
}

// replay runs a single scenario and collects its output.
func (r *Runner) replay(op *Ops, path string, src io.Reader) result {
	res := result{path: path}

	s, err := LoadScenario(src)
	if err != nil {
		res.err = err
		return res
	}

	var out bytes.Buffer
	name := s.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	ctx := NewContext(r.Config)
	res.err = s.Replay(ctx, func(fr FrameResult) error {
		res.frames++
		if op.Tables {
			fmt.Fprintf(&out, "%s frame %d\n", name, fr.Index)
			if err := fr.Snapshot.WriteTable(&out, op.Color); err != nil {
				return err
			}
			out.WriteByte('\n')
		}
		if op.OverlayDir != "" {
			if r.Spinner != nil {
				r.Spinner.SetMessage(fmt.Sprintf("%s %s",
					utils.DecorateText("⇢ rendering overlay", utils.DefaultMessage),
					utils.DecorateText(fmt.Sprintf("%s #%d", name, fr.Index), utils.StatusMessage),
				))
			}
			return r.writeOverlay(op, name, fr)
		}
		return nil
	})
	res.output = out.Bytes()
	return res
}

func (r *Runner) writeOverlay(op *Ops, name string, fr FrameResult) error {
	overlay := r.Overlay
	if overlay == nil {
		overlay = NewOverlay()
	}
	img, err := overlay.Render(fr)
	if err != nil {
		return err
	}

	ext := op.OverlayFormat
	if ext == "" {
		ext = ".png"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	scale := op.OverlayScale
	if scale == 0 {
		scale = 1
	}

	fname := filepath.Join(op.OverlayDir, fmt.Sprintf("%s_%03d%s", name, fr.Index, ext))
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("unable to create the overlay file: %w", err)
	}
	if err := EncodeOverlay(f, img, ext, scale); err != nil {
		f.Close()
		os.Remove(fname)
		return err
	}
	return f.Close()
}

// printStatus displays the relevant information about a scenario replay.
func (r *Runner) printStatus(res result) error {
	if len(res.output) > 0 {
		r.Stdout.Write(res.output)
	}
	if res.err != nil {
		fmt.Fprintf(r.Stderr, "%s %s\n\t%s\n",
			utils.DecorateText("✘", utils.ErrorMessage),
			utils.DecorateText(res.path, utils.DefaultMessage),
			utils.DecorateText(fmt.Sprintf("Reason: %v", res.err), utils.ErrorMessage),
		)
		return res.err
	}
	fmt.Fprintf(r.Stderr, "%s %s %s\n",
		utils.DecorateText("✔", utils.SuccessMessage),
		utils.DecorateText(res.path, utils.DefaultMessage),
		utils.DecorateText(fmt.Sprintf("(%d frames)", res.frames), utils.StatusMessage),
	)
	return nil
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each scenario file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !isValidExtension(filepath.Ext(f.Name()), srcExts) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	return utils.Contains(extensions, strings.ToLower(ext))
}
