package cli

// Version is the ryt version (set via -ldflags)
var Version = "v0.1.0"

// Usage is printed for help, for a missing command and after an unrecognized one
const Usage = `description: tooling for JavaScript workspaces

usage: ryt <command> [<args>]
    --version, -v                 print version
    --help, -h                    print usage
    --path=<path>, -p <path>      specify entrypoint path
    --grep=<pattern>              filter for package names that match pattern

commands:

Get info
    list, ls                      list packages
    status, s                     get packages' file status
    branch, b                     get packages' branches
    log, lg                       get packages' commit history
        -<number>, -n <number>    number of commits to display per package
        --max-count=<number>

Manage dependencies
    install, i                    install packages' registered dependencies
    link, ln                      symlink all packages that are dependencies of other packages
        --dry-run, -n             noop, showing output
    clean                         remove packages' node_modules and ignored package-lock.json
        -f                        remove all ignored and untracked files

Sync branches and remotes
    fetch                         fetch all branches of all remotes
    merge                         fast-forward current branches to their upstream
    pull                          fetch+merge remote into current branch
    push                          push current branches to remote

Control versions
    checkout, ch <branch>         switch modules to existing branch, noop if non-existing branch
        -b                        switch modules to new branch, keep if existing branch
        -B                        switch modules to new branch, overwrite if existing branch
        --dry-run, -n             noop, showing output
    delete <branch>               deletes branch from packages
        --dry-run, -n             noop, showing output

Release
    dist <major|minor|patch>      bump version and publish
        --dry-run, -n             noop, showing output

Configuration
    config                        print effective configuration

environment:
    RYT_PATH                      colon-separated entrypoint paths, defaults to HOME
`
