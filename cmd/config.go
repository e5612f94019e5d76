package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/conectividad/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_path: %s\n", cfg.DataPath)
		fmt.Fprintf(out, "encoding: %s\n", cfg.Encoding)
		fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		if len(cfg.AllowedOrigins) > 0 {
			fmt.Fprintf(out, "allowed_origins: %s\n", strings.Join(cfg.AllowedOrigins, ","))
		}
		fmt.Fprintf(out, "session_ttl_min: %d\n", cfg.SessionTTLMin)
		fmt.Fprintf(out, "map_center: %.6f, %.6f (zoom %d)\n", cfg.MapCenterLat, cfg.MapCenterLon, cfg.MapZoom)
		fmt.Fprintf(out, "map_tiles: %s\n", cfg.MapTiles)
		fmt.Fprintf(out, "map_size: %dx%d\n", cfg.MapWidth, cfg.MapHeight)
		fmt.Fprintf(out, "marker_good_rating: %g\n", cfg.MarkerGoodRating)
		fmt.Fprintf(out, "marker_fair_ratings: %s\n", joinFloats(cfg.MarkerFairRatings))
		fmt.Fprintf(out, "marker_speed_divisor: %g\n", cfg.MarkerSpeedDivisor)
		fmt.Fprintf(out, "marker_radius: %g..%g (clamp %t)\n", cfg.MarkerMinRadius, cfg.MarkerMaxRadius, cfg.MarkerClampRadius)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := c.Policy().Validate(); err != nil {
			return err
		}
		if _, err := c.LoadOptions(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	var err error
	switch key {
	case "data_path":
		c.DataPath = val
	case "encoding":
		c.Encoding = val
	case "delimiter":
		c.Delimiter = val
	case "listen_addr":
		c.ListenAddr = val
	case "allowed_origins":
		c.AllowedOrigins = splitList(val)
	case "session_ttl_min":
		c.SessionTTLMin, err = parsePositiveInt(key, val)
	case "map_center_lat":
		c.MapCenterLat, err = parseFloat(key, val)
	case "map_center_lon":
		c.MapCenterLon, err = parseFloat(key, val)
	case "map_zoom":
		c.MapZoom, err = parsePositiveInt(key, val)
	case "map_tiles":
		c.MapTiles = val
	case "map_width":
		c.MapWidth, err = parsePositiveInt(key, val)
	case "map_height":
		c.MapHeight, err = parsePositiveInt(key, val)
	case "map_popup_max_width":
		c.MapPopupMaxWidth, err = parsePositiveInt(key, val)
	case "marker_good_rating":
		c.MarkerGoodRating, err = parseFloat(key, val)
	case "marker_fair_ratings":
		c.MarkerFairRatings = nil
		for _, s := range splitList(val) {
			f, perr := parseFloat(key, s)
			if perr != nil {
				return perr
			}
			c.MarkerFairRatings = append(c.MarkerFairRatings, f)
		}
	case "marker_rating_radius":
		c.MarkerRatingRadius, err = parseFloat(key, val)
	case "marker_speed_divisor":
		c.MarkerSpeedDivisor, err = parseFloat(key, val)
	case "marker_min_radius":
		c.MarkerMinRadius, err = parseFloat(key, val)
	case "marker_max_radius":
		c.MarkerMaxRadius, err = parseFloat(key, val)
	case "marker_clamp_radius":
		c.MarkerClampRadius, err = strconv.ParseBool(val)
		if err != nil {
			err = fmt.Errorf("invalid bool for %s: %v", key, val)
		}
	case "marker_fill_opacity":
		c.MarkerFillOpacity, err = parseFloat(key, val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func parseFloat(key, val string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float for %s: %v", key, val)
	}
	return f, nil
}

func parsePositiveInt(key, val string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || i <= 0 {
		return 0, fmt.Errorf("invalid int for %s: %v", key, val)
	}
	return i, nil
}

func splitList(val string) []string {
	var out []string
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
