package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/bloofirephoenix/BreadLang/internal/iox"
	"github.com/bloofirephoenix/BreadLang/microcode"
	"github.com/bloofirephoenix/BreadLang/scenarios"
	"github.com/bloofirephoenix/BreadLang/transport"
)

func cmdUpload(args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	display := fs.Bool("display", false, "upload the 7-segment display decoder ROM instead of a program")
	brain := fs.Int("brain", -1, "upload microcode ROM byte-plane N (0-3) instead of a program")
	baud := fs.Int("baud", 0, "override the project's configured baud rate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var image []byte
	var err error
	chunkSize := transport.DefaultChunkSize

	switch {
	case *display:
		image = scenarios.SevenSegmentROM()
	case *brain >= 0:
		plane, perr := microcode.Plane(*brain)
		if perr != nil {
			return perr
		}
		cfg, cerr := loadProjectConfig()
		if cerr != nil {
			return cerr
		}
		if werr := cacheMicrocodePlane(cfg.Microcode.OutputDir, *brain, plane); werr != nil {
			return werr
		}
		image = plane
	default:
		cfg, cerr := loadProjectConfig()
		if cerr != nil {
			return cerr
		}
		if fs.NArg() == 1 {
			image, err = os.ReadFile(fs.Arg(0))
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", fs.Arg(0))
			}
		} else {
			image, err = compile(cfg)
			if err != nil {
				return err
			}
		}
		if *baud == 0 {
			*baud = cfg.Upload.BaudRate
		}
		if cfg.Upload.ChunkSize > 0 {
			chunkSize = cfg.Upload.ChunkSize
		}
	}
	if *baud == 0 {
		*baud = 9600
	}

	portName, err := choosePort()
	if err != nil {
		return err
	}

	port, err := transport.Open(portName, *baud)
	if err != nil {
		return err
	}
	defer port.Close()

	return transport.Upload(port, image, chunkSize, func(sent, total int) {
		ok("Uploaded %d/%d bytes", sent, total)
	})
}

// cacheMicrocodePlane writes a generated ROM byte-plane to dir before it
// is uploaded, so a failed or interrupted upload doesn't force
// regenerating the plane from scratch. The plane is written in a few
// large chunks; ErrWriter lets the writes go unchecked until the end.
func cacheMicrocodePlane(dir string, plane int, image []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create microcode output directory %s", dir)
	}
	path := filepath.Join(dir, fmt.Sprintf("plane%d.bin", plane))
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	ew := iox.NewErrWriter(f)
	const chunkSize = 1 << 16
	for offset := 0; offset < len(image); offset += chunkSize {
		end := offset + chunkSize
		if end > len(image) {
			end = len(image)
		}
		ew.Write(image[offset:end])
	}
	if ew.Err != nil {
		return errors.Wrapf(ew.Err, "failed to write %s", path)
	}
	return nil
}

// choosePort lists available serial ports and asks the operator to pick
// one, the same interactive flow upload.rs drives over stdin/stdout.
func choosePort() (string, error) {
	ports, err := transport.ListPorts()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", errors.New("no serial ports found")
	}
	if len(ports) == 1 {
		return ports[0], nil
	}

	fmt.Println("Available serial ports:")
	for i, p := range ports {
		fmt.Printf("  %d) %s\n", i+1, p)
	}
	fmt.Print("Select a port: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "failed to read port selection")
	}
	idx, err := parsePortIndex(line, len(ports))
	if err != nil {
		return "", err
	}
	return ports[idx], nil
}

func parsePortIndex(line string, count int) (int, error) {
	var n int
	if _, err := fmt.Sscanf(line, "%d", &n); err != nil {
		return 0, errors.New("invalid selection")
	}
	if n < 1 || n > count {
		return 0, errors.New("selection out of range")
	}
	return n - 1, nil
}
