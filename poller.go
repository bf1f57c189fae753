package uvloop

// Poll registration is implemented in poller_linux.go, wrapping epoll.
// See doc.go for the package overview.
