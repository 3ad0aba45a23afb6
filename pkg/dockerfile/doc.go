// Package dockerfile harvests pip package names from container build files.
//
// # Install Sections
//
// A build file rarely lists its Python dependencies in one place. Instead
// they appear as arguments to a pip install command, usually behind a shell
// variable and often continued across several lines:
//
//	RUN $PIP_INSTALL \
//	        numpy \
//	        scipy==1.4.1 \
//	        pandas && \
//	    rm -rf ~/.cache/pip
//
// [Scanner] treats the text between an install marker ("$PIP_INSTALL") and
// the next command separator ("&&") as an install section and harvests every
// argument there that looks like a bare package name: it must start with an
// ASCII letter and must not contain "=". Pinned requirements ("scipy==1.4.1"),
// options ("--no-cache-dir") and line continuations ("\") are skipped, as is
// everything outside a section. For the example above the result is
// [numpy pandas].
//
// The scan is a heuristic over shell text, not a shell parser. Duplicates are
// kept, in order of appearance.
package dockerfile
