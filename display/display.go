/*
Package display presents decoded images, either by saving them to a file or by
handing them to the platform image viewer.
*/
package display

import (
	"image"
	"os"
	"os/exec"
	"runtime"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Presenter accepts a complete image.
type Presenter interface {
	Present(m image.Image) error
}

func scale(m image.Image, width, height int) image.Image {
	if width <= 0 && height <= 0 {
		return m
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	// Nearest neighbour keeps individual pixels visible when enlarging
	return resize.Resize(uint(width), uint(height), m, resize.NearestNeighbor)
}

// File saves the image to Path, the format is chosen from the extension. If
// only one of Width or Height is set the aspect ratio is preserved.
type File struct {
	Path          string
	Width, Height int
}

// Present implements the Presenter interface.
func (f File) Present(m image.Image) error {
	return imaging.Save(scale(m, f.Width, f.Height), f.Path)
}

// Viewer opens the image with the default application for PNG files.
type Viewer struct {
	Width, Height int

	// Command overrides the platform opener, the file path is appended.
	Command []string
}

func opener() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

// Present implements the Presenter interface. The temporary file is left in
// place as the viewer may still be reading it after the opener returns.
func (v Viewer) Present(m image.Image) error {
	f, err := os.CreateTemp("", "rgbtext-*.png")
	if err != nil {
		return err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return err
	}

	if err := (File{Path: path, Width: v.Width, Height: v.Height}).Present(m); err != nil {
		return err
	}

	args := v.Command
	if len(args) == 0 {
		args = opener()
	}

	cmd := exec.Command(args[0], append(args[1:len(args):len(args)], path)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
