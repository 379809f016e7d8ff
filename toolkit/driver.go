// Copyright 2019 Bull S.A.S. Atos Technologies - Bull, Rue Jean Jaures, B.P.68, 78340, Les Clayes-sous-Bois, France.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package toolkit

// driverScript is staged and run by the Runner. It reads the Call payload whose path is its first
// argument. A payload without function only checks that the module can be imported.
// Strings starting with ~ are expanded with the home directory of the host running the driver.
const driverScript = `import importlib
import json
import os
import sys
import traceback


def expand_user(value):
    if isinstance(value, str) and value.startswith("~"):
        return os.path.expanduser(value)
    if isinstance(value, list):
        return [expand_user(v) for v in value]
    return value


def main():
    with open(sys.argv[1]) as f:
        call = json.load(f)
    try:
        module = importlib.import_module(call["module"])
        function = call.get("function")
        if not function:
            print("module %s imported from %s" % (call["module"], getattr(module, "__file__", "?")))
            return
        args = [expand_user(a) for a in call.get("args") or []]
        kwargs = dict((k, expand_user(v)) for k, v in (call.get("kwargs") or {}).items())
        getattr(module, function)(*args, **kwargs)
    except Exception as e:
        print("Error in %s: %s" % (call.get("function") or "import", e), file=sys.stderr)
        traceback.print_exc()
        sys.exit(1)


if __name__ == "__main__":
    main()
`
