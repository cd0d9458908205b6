// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

// Future is the handle returned by RenderThread.Push: Wait blocks until
// the pushed task has run and returns any error it produced.
type Future struct {
	done chan error
}

// Wait blocks until the task completes and returns its error, if any.
func (f Future) Wait() error { return <-f.done }

// RenderThread serializes canvas mutations and display tasks onto a
// single worker goroutine, per spec section 5: the core library is
// otherwise synchronous and single-threaded, and the one concurrency
// primitive is this general-purpose worker whose only core use is the
// optional GPU render thread, preserving GPU context affinity by
// construction (everything runs on the same goroutine). Grounded on the
// original's painty/gpu/GpuTaskQueue.hxx single-worker, future-returning
// push_back, reimplemented with a Go channel instead of a condition
// variable.
type RenderThread struct {
	tasks chan func() error
	done  chan struct{}
}

// NewRenderThread starts the worker goroutine and returns a handle to it.
// The queue holds up to 64 pending tasks; Push blocks while it is full.
func NewRenderThread() *RenderThread {
	rt := &RenderThread{
		tasks: make(chan func() error, 64),
		done:  make(chan struct{}),
	}
	go rt.run()
	return rt
}

func (rt *RenderThread) run() {
	for task := range rt.tasks {
		task()
	}
	close(rt.done)
}

// Push enqueues fn to run on the worker goroutine and returns a Future
// the caller can Wait() on, matching the original's awaitable push_back.
func (rt *RenderThread) Push(fn func() error) Future {
	done := make(chan error, 1)
	rt.tasks <- func() error {
		err := fn()
		done <- err
		return err
	}
	return Future{done: done}
}

// Stop closes the task queue and waits for the worker to drain it. Stop
// must be called at most once.
func (rt *RenderThread) Stop() {
	close(rt.tasks)
	<-rt.done
}
