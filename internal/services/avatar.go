package services

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"strings"
	"sync"
	"unicode"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	_ "golang.org/x/image/webp"

	types "github.com/yungbote/ideabox-backend/internal/domain"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

const (
	AvatarSize         = 256
	MaxAvatarUploadLen = 5 << 20
)

var defaultAvatarPalette = []string{
	"#F94144", "#F3722C", "#F8961E", "#F9C74F", "#90BE6D",
	"#43AA8B", "#4D908E", "#577590", "#277DA1", "#9B5DE5",
}

type AvatarService interface {
	// PickColor keeps current when it is a palette color, otherwise picks one.
	PickColor(current string) string
	RenderInitials(u *types.User) ([]byte, error)
	ProcessUpload(raw []byte) ([]byte, error)
}

type avatarService struct {
	log *logger.Logger

	bgColors   []color.NRGBA
	colorByHex map[string]color.NRGBA

	mu       sync.Mutex
	rnd      *rand.Rand
	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, palette []string, seed int64) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")
	if len(palette) == 0 {
		palette = defaultAvatarPalette
	}
	bgColors := make([]color.NRGBA, 0, len(palette))
	colorByHex := make(map[string]color.NRGBA, len(palette))
	for _, h := range palette {
		n := normalizeHex(h)
		if n == "" {
			return nil, fmt.Errorf("invalid avatar color %q", h)
		}
		r, g, b, _ := parseHexRGB(n)
		c := color.NRGBA{R: r, G: g, B: b, A: 255}
		bgColors = append(bgColors, c)
		colorByHex[n] = c
	}

	parsed, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{
		Size:    float64(AvatarSize) * 0.4,
		DPI:     72,
		Hinting: font.HintingNone,
	})

	return &avatarService{
		log:        serviceLog,
		bgColors:   bgColors,
		colorByHex: colorByHex,
		rnd:        rand.New(rand.NewSource(seed)),
		fontFace:   face,
	}, nil
}

func (as *avatarService) PickColor(current string) string {
	if n := normalizeHex(current); n != "" {
		if _, ok := as.colorByHex[n]; ok {
			return n
		}
	}
	as.mu.Lock()
	pick := as.bgColors[as.rnd.Intn(len(as.bgColors))]
	as.mu.Unlock()
	return nrgbaToHex(pick)
}

func (as *avatarService) RenderInitials(u *types.User) ([]byte, error) {
	if u == nil {
		return nil, fmt.Errorf("user required")
	}
	const size = AvatarSize
	dc := gg.NewContext(size, size)

	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	bg := as.colorByHex[as.PickColor(u.AvatarColor)]
	dc.SetColor(bg)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	as.mu.Lock()
	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(computeInitials(u.Nickname, u.Email), float64(size)/2, float64(size)/2, 0.5, 0.35)
	as.mu.Unlock()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// ProcessUpload center-crops to a square, scales to AvatarSize and clips
// to a circle.
func (as *avatarService) ProcessUpload(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, apperrors.Invalid("avatar", "required", "is required")
	}
	if len(raw) > MaxAvatarUploadLen {
		return nil, apperrors.Invalid("avatar", "max_size", "must be at most 5 MiB")
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, apperrors.Invalid("avatar", "format", "is not a supported image")
	}

	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, AvatarSize, AvatarSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(AvatarSize, AvatarSize)
	dc.DrawCircle(float64(AvatarSize)/2, float64(AvatarSize)/2, float64(AvatarSize)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	var out bytes.Buffer
	if err := dc.EncodePNG(&out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}

func normalizeHex(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 7 {
		return ""
	}
	if _, _, _, err := parseHexRGB(s); err != nil {
		return ""
	}
	return s
}

func parseHexRGB(s string) (r, g, b uint8, err error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("expected 6 hex chars")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex")
	}
	return raw[0], raw[1], raw[2], nil
}

func nrgbaToHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// computeInitials takes the first letter of up to two nickname words,
// falling back to the email's first letter.
func computeInitials(nickname, email string) string {
	var out []rune
	for _, w := range strings.Fields(nickname) {
		r := []rune(w)[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, unicode.ToUpper(r))
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		for _, r := range email {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}
