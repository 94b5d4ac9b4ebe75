// Package process runs and supervises child processes.
//
// The Supervisor starts each process under a unique ID, tracks it until it
// exits and terminates whatever is still running on Shutdown.
//
// # Running to completion
//
// Run feeds a string to stdin and collects stdout and stderr into a single
// blob, which is how the renderer reports what it did:
//
//	supervisor := process.NewSupervisor()
//	defer supervisor.Shutdown(5 * time.Second)
//
//	res, err := supervisor.Run(ctx, "freeze", []string{"freeze", "--language", "go"}, source)
//	if err != nil {
//	    return err // could not start, or ctx ended
//	}
//	fmt.Println(res.Output, res.ExitCode)
//
// # Fire and forget
//
// Start launches a helper such as an image viewer without waiting for it.
//
// # Thread Safety
//
// Both Supervisor and Process are safe for concurrent use.
package process
