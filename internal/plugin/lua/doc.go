// Package lua runs the viewer's init script.
//
// The script runs in a sandboxed gopher-lua state and talks to the viewer
// through a global imview table:
//
//	imview.command(name, fn)   -- register a command; fn(args, raw)
//	imview.bind(keys, text)    -- bind a key sequence to command text
//	imview.alias(name, text)   -- alias a command name
//	imview.exec(text)          -- run command text now
//	imview.set(option, value)  -- set an option
//	imview.state(name)         -- read a variable such as "current_file"
//	imview.log(level, msg)     -- write to the viewer log
//
// For example:
//
//	imview.command("next_two", function(args)
//	    imview.exec("select_rel 2")
//	end)
//	imview.bind("<Shift+n>", "next_two")
//	imview.set("background", "checks")
//
// # State
//
// A State is owned by one goroutine. Commands registered by the script are
// called back on that goroutine, and a callback may itself call
// imview.exec, so State takes no locks.
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load and loadstring are removed. Every call runs under a
// timeout enforced through the state's context.
package lua
