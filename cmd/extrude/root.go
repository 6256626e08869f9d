package main

import (
	"fmt"
	"os"

	extrude "github.com/coalaura/go-extrude"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "1.0.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "extrude [input]",
	Short: "Pad every tile in a tileset with a duplicated ring of its edge pixels",
	Long: `extrude converts a tightly packed tileset image into an extruded one.

Each tile is copied onto a transparent sheet and surrounded by duplicates of
its own edge and corner pixels. This stops texture bleeding when map engines
sample tiles with bilinear filtering or partial pixel offsets.

The input has to tessellate exactly into the tile grid. The output is written
next to the input as <name>-extruded<ext>, in the same format.

Examples:
  # Extrude tiles.png with the default 16x16 grid
  extrude

  # Extrude a 32x32 tileset with a 2 pixel ring
  extrude --tile-width 32 --tile-height 32 --extrude 2 dungeon.png

  # Start the HTTP API
  extrude serve --port 8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtrude,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	defaults := extrude.Defaults()

	rootCmd.Flags().Int("tile-width", defaults.TileWidth, "tile width in pixels")
	rootCmd.Flags().Int("tile-height", defaults.TileHeight, "tile height in pixels")
	rootCmd.Flags().Int("extrude", defaults.Extrude, "size of the duplicated edge ring in pixels")
	rootCmd.Flags().Int("border", defaults.Border, "empty border around the whole sheet in pixels")
	rootCmd.Flags().Int("spacing", defaults.Spacing, "empty gap between extruded tiles in pixels")
	rootCmd.Flags().BoolP("verbose", "v", false, "print progress while extruding")

	viper.BindPFlag("tile-width", rootCmd.Flags().Lookup("tile-width"))
	viper.BindPFlag("tile-height", rootCmd.Flags().Lookup("tile-height"))
	viper.BindPFlag("extrude", rootCmd.Flags().Lookup("extrude"))
	viper.BindPFlag("border", rootCmd.Flags().Lookup("border"))
	viper.BindPFlag("spacing", rootCmd.Flags().Lookup("spacing"))
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))

	viper.AutomaticEnv() // read in environment variables that match
}

func runExtrude(cmd *cobra.Command, args []string) error {
	input := "tiles.png"

	if len(args) > 0 {
		input = args[0]
	}

	opts := extrude.Options{
		TileWidth:  viper.GetInt("tile-width"),
		TileHeight: viper.GetInt("tile-height"),
		Extrude:    viper.GetInt("extrude"),
		Border:     viper.GetInt("border"),
		Spacing:    viper.GetInt("spacing"),
	}

	ex, err := extrude.NewExtruder(input, opts)
	if err != nil {
		return err
	}

	ex.Verbose = viper.GetBool("verbose")

	dest, err := ex.Run()
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", dest)
	fmt.Printf("Use in Tiled with: Tile=%dx%d, Margin = %d, Spacing = %d\n",
		opts.TileWidth, opts.TileHeight, opts.Border+opts.Extrude, 2*opts.Extrude+opts.Spacing)

	return nil
}
