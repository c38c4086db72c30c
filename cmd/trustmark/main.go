// Command trustmark demonstrates encoding and decoding a watermark through
// the trustmark package against a model directory on disk.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cocosip/go-trustmark/trustmark"
)

func main() {
	modelDir := flag.String("models", "", "directory containing encoder_*.onnx/decoder_*.onnx")
	variantFlag := flag.String("variant", "Q", "model variant: B, C, P, or Q")
	versionFlag := flag.String("version", "BCH_5", "frame version: BCH_SUPER, BCH_5, BCH_4, BCH_3")
	payload := flag.String("payload", "", "binary payload string to embed ('0'/'1' chars); if empty, only decode is run")
	strength := flag.Float64("strength", 0.95, "residual strength, 0..1")
	in := flag.String("in", "", "input PNG path")
	out := flag.String("out", "", "output PNG path for the watermarked image (encode mode only)")
	flag.Parse()

	if *modelDir == "" || *in == "" {
		fmt.Fprintln(os.Stderr, "usage: trustmark -models <dir> -in <input.png> [-payload <bits> -out <output.png>]")
		os.Exit(2)
	}

	variant, err := parseVariant(*variantFlag)
	if err != nil {
		log.Fatalf("trustmark: %v", err)
	}

	var version trustmark.Version
	switch *versionFlag {
	case "BCH_SUPER":
		version = trustmark.BchSuper
	case "BCH_5":
		version = trustmark.Bch5
	case "BCH_4":
		version = trustmark.Bch4
	case "BCH_3":
		version = trustmark.Bch3
	default:
		log.Fatalf("trustmark: unknown version %q", *versionFlag)
	}

	handle, err := trustmark.Open(*modelDir, variant, version)
	if err != nil {
		log.Fatalf("trustmark: opening model directory: %v", err)
	}
	defer handle.Close()

	img, err := loadPNG(*in)
	if err != nil {
		log.Fatalf("trustmark: loading input image: %v", err)
	}

	p := message.NewPrinter(language.English)

	if *payload != "" {
		watermarked, err := handle.Encode(*payload, img, float32(*strength))
		if err != nil {
			log.Fatalf("trustmark: encode: %v", err)
		}
		if *out == "" {
			log.Fatal("trustmark: -out is required in encode mode")
		}
		if err := savePNG(*out, watermarked); err != nil {
			log.Fatalf("trustmark: saving output image: %v", err)
		}
		p.Printf("encoded %d-bit payload into %s (strength %.2f)\n", len(*payload), *out, *strength)
		return
	}

	recovered, err := handle.Decode(img)
	if err != nil {
		log.Fatalf("trustmark: decode: %v", err)
	}
	p.Printf("recovered %d-bit payload: %s\n", len(recovered), recovered)
}

func parseVariant(s string) (trustmark.Variant, error) {
	switch s {
	case "B":
		return trustmark.VariantB, nil
	case "C":
		return trustmark.VariantC, nil
	case "P":
		return trustmark.VariantP, nil
	case "Q":
		return trustmark.VariantQ, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", s)
	}
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
