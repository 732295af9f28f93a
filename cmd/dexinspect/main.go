package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	dexload "github.com/logicossoftware/go-dexload"
)

type unit struct {
	Location string `json:"location"`
	Checksum string `json:"checksum"`
	Size     int    `json:"size,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

type summary struct {
	AllUncompressed bool   `json:"all_uncompressed"`
	Units           []unit `json:"units"`
}

func main() {
	var inPath string
	var open bool
	flag.StringVar(&inPath, "in", "", "input .dex, .apk or .jar file")
	flag.BoolVar(&open, "open", false, "fully open and verify each unit instead of listing checksums")
	flag.Parse()
	if inPath == "" {
		log.Fatal("-in is required")
	}

	var s summary
	if open {
		files, err := dexload.Open(inPath)
		if err != nil {
			log.Fatalf("open: %v", err)
		}
		s.AllUncompressed = true
		for _, f := range files {
			s.Units = append(s.Units, unit{
				Location: f.Location(),
				Checksum: fmt.Sprintf("0x%08x", f.Checksum()),
				Size:     f.Size(),
				Verified: f.Verified(),
			})
			f.Close()
		}
	} else {
		sums, allUncompressed, err := dexload.MultiDexChecksums(inPath)
		if err != nil {
			log.Fatalf("checksums: %v", err)
		}
		s.AllUncompressed = allUncompressed
		for _, c := range sums {
			s.Units = append(s.Units, unit{
				Location: c.Location,
				Checksum: fmt.Sprintf("0x%08x", c.Checksum),
			})
		}
	}

	b, _ := json.MarshalIndent(s, "", "  ")
	fmt.Println(string(b))
}
