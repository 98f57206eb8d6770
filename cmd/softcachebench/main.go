// Command softcachebench runs workloads through the softcache against the
// software device and reports the transfer-elision profile.
package main

func main() {
	Execute()
}
