package main

// stripConfigFlags removes -config/--config PATH pairs from args so a
// subcommand's own flag.FlagSet doesn't choke on a flag it doesn't define;
// loadConfig has already consumed them before dispatch.
func stripConfigFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if (args[i] == "-config" || args[i] == "--config") && i+1 < len(args) {
			i++
			continue
		}
		out = append(out, args[i])
	}
	return out
}
